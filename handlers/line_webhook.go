package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"log"
	"os"
	"strings"

	"leavehub_go/models"

	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/linebot"
	"gorm.io/gorm"
)

type LineWebhookHandler struct {
	DB  *gorm.DB
	Bot *linebot.Client
}

func NewLineWebhookHandler(db *gorm.DB) *LineWebhookHandler {
	secret := os.Getenv("LINE_CHANNEL_SECRET")
	token := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")

	if secret == "" || token == "" {
		log.Println("⚠️ LINE credentials missing: webhook disabled")
		return &LineWebhookHandler{DB: db, Bot: nil}
	}

	bot, err := linebot.New(secret, token)
	if err != nil {
		log.Fatalf("cannot create LINE bot client: %v", err)
	}
	return &LineWebhookHandler{DB: db, Bot: bot}
}

// Handle รับ webhook event จาก LINE
func (h *LineWebhookHandler) Handle(c *fiber.Ctx) error {
	if h.Bot == nil {
		return c.SendStatus(fiber.StatusOK)
	}

	signature := c.Get("X-Line-Signature")
	if signature == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if !validateSignature(os.Getenv("LINE_CHANNEL_SECRET"), c.Body(), signature) {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	// ตอบกลับ 200 ก่อน แล้วประมวลผล event เบื้องหลัง
	go h.processEvents(c.Body())

	return c.SendStatus(fiber.StatusOK)
}

func (h *LineWebhookHandler) processEvents(body []byte) {
	var webhook struct {
		Events []*linebot.Event `json:"events"`
	}
	if err := json.Unmarshal(body, &webhook); err != nil {
		log.Printf("❌ Failed to parse event JSON: %v", err)
		return
	}

	for _, event := range webhook.Events {
		switch event.Type {
		case linebot.EventTypeFollow:
			h.handleFollow(event)
		case linebot.EventTypeUnfollow:
			h.handleUnfollow(event)
		case linebot.EventTypeMessage:
			h.handleMessage(event)
		}
	}
}

// handleFollow ทักทายและแนะนำวิธีผูกบัญชี
func (h *LineWebhookHandler) handleFollow(event *linebot.Event) {
	userID := event.Source.UserID
	if userID == "" {
		return
	}
	log.Printf("✅ New LINE follower: %s", userID)

	msg := "สวัสดีค่ะ 🎉\nพิมพ์ username ของคุณเพื่อผูกบัญชีและรับการแจ้งเตือนการลา"
	if _, err := h.Bot.ReplyMessage(event.ReplyToken, linebot.NewTextMessage(msg)).Do(); err != nil {
		log.Printf("❌ Failed to send welcome message: %v", err)
	}
}

// handleUnfollow ยกเลิกการผูกบัญชีเมื่อผู้ใช้ block OA
func (h *LineWebhookHandler) handleUnfollow(event *linebot.Event) {
	userID := event.Source.UserID
	if userID == "" {
		return
	}

	result := h.DB.Model(&models.User{}).Where("line_id = ?", userID).Update("line_id", "")
	if result.Error != nil {
		log.Printf("❌ Failed to unlink LINE account %s: %v", userID, result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("🚪 Unlinked LINE account: %s", userID)
	}
}

// handleMessage ผูก LINE userID กับบัญชีพนักงานโดยใช้ username
func (h *LineWebhookHandler) handleMessage(event *linebot.Event) {
	lineUserID := event.Source.UserID
	if lineUserID == "" {
		return
	}

	textMsg, ok := event.Message.(*linebot.TextMessage)
	if !ok {
		return
	}
	username := strings.TrimSpace(textMsg.Text)
	if username == "" {
		return
	}

	// ผูกแล้วไม่ต้องทำซ้ำ
	var linked models.User
	if err := h.DB.Where("line_id = ?", lineUserID).First(&linked).Error; err == nil {
		h.reply(event.ReplyToken, "บัญชีของคุณผูกกับระบบแล้ว ✅")
		return
	}

	var user models.User
	err := h.DB.Where("username = ? AND status = ?", username, "active").First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			h.reply(event.ReplyToken, "ไม่พบ username นี้ในระบบ กรุณาตรวจสอบอีกครั้ง")
		} else {
			log.Printf("❌ Failed to look up user %q: %v", username, err)
		}
		return
	}

	if user.LineID != "" && user.LineID != lineUserID {
		h.reply(event.ReplyToken, "บัญชีนี้ถูกผูกกับ LINE อื่นแล้ว กรุณาติดต่อผู้ดูแลระบบ")
		return
	}

	user.LineID = lineUserID
	if err := h.DB.Save(&user).Error; err != nil {
		log.Printf("❌ Failed to link LINE account for user %d: %v", user.ID, err)
		return
	}

	log.Printf("💾 Linked LINE account %s to user %s", lineUserID, user.Username)
	h.reply(event.ReplyToken, "ผูกบัญชีสำเร็จ 🎉 คุณจะได้รับการแจ้งเตือนการลาทาง LINE")
}

func (h *LineWebhookHandler) reply(replyToken, message string) {
	if _, err := h.Bot.ReplyMessage(replyToken, linebot.NewTextMessage(message)).Do(); err != nil {
		log.Printf("❌ Failed to send LINE reply: %v", err)
	}
}

// validateSignature ตรวจสอบว่า signature ถูกต้อง
func validateSignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
