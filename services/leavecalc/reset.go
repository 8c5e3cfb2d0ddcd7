package leavecalc

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"leavehub_go/models"
)

// Reset strategies
const (
	StrategyZero   = "zero"   // keep rows, set days/hours to 0
	StrategyDelete = "delete" // remove the rows
)

// ResetParams selects the reset targets. Precedence: explicit
// UserIDs, then PositionID, then every position flagged for the
// new-year reset (NewYearQuota == 0).
type ResetParams struct {
	PositionID *uint
	UserIDs    []uint
	Force      bool
	Strategy   string
}

// ResetResult reports what the reset touched.
type ResetResult struct {
	PositionsAffected int   `json:"positions_affected"`
	UsersAffected     int   `json:"users_affected"`
	RowsAffected      int64 `json:"rows_affected"`
}

// Reset clears accumulated LeaveUsed totals for the targeted users.
// Unless forced it only runs on January 1st. The whole operation is
// one transaction; any failure rolls everything back.
func (s *Service) Reset(params ResetParams) (*ResetResult, error) {
	now := s.now()
	if !params.Force && !(now.Month() == time.January && now.Day() == 1) {
		return nil, ErrResetWindow
	}

	strategy := params.Strategy
	if strategy == "" {
		strategy = StrategyZero
	}
	if strategy != StrategyZero && strategy != StrategyDelete {
		return nil, ErrBadResetStrategy
	}

	var result ResetResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users, err := resolveTargets(tx, params)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return ErrNoResetTargets
		}

		userIDs := make([]uint, 0, len(users))
		positions := make(map[uint]struct{})
		for _, u := range users {
			userIDs = append(userIDs, u.ID)
			positions[u.PositionID] = struct{}{}
		}

		var op *gorm.DB
		switch strategy {
		case StrategyDelete:
			op = tx.Unscoped().Where("user_id IN ?", userIDs).Delete(&models.LeaveUsed{})
		default:
			op = tx.Model(&models.LeaveUsed{}).
				Where("user_id IN ?", userIDs).
				Updates(map[string]interface{}{"days": 0, "hours": 0})
		}
		if op.Error != nil {
			return op.Error
		}

		result = ResetResult{
			PositionsAffected: len(positions),
			UsersAffected:     len(userIDs),
			RowsAffected:      op.RowsAffected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func resolveTargets(tx *gorm.DB, params ResetParams) ([]models.User, error) {
	var users []models.User

	if len(params.UserIDs) > 0 {
		if err := tx.Where("id IN ?", params.UserIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		return users, nil
	}

	if params.PositionID != nil {
		var position models.Position
		if err := tx.First(&position, *params.PositionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, gorm.ErrRecordNotFound
			}
			return nil, err
		}
		if err := tx.Where("position_id = ?", position.ID).Find(&users).Error; err != nil {
			return nil, err
		}
		return users, nil
	}

	// Default: all users under reset-eligible positions
	var positionIDs []uint
	err := tx.Model(&models.Position{}).
		Where("new_year_quota = ?", 0).
		Pluck("id", &positionIDs).Error
	if err != nil {
		return nil, err
	}
	if len(positionIDs) == 0 {
		return users, nil
	}
	if err := tx.Where("position_id IN ?", positionIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
