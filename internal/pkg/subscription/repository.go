package subscription

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

// Repository provides DB operations used by the subscription service.
type Repository interface {
	GetActiveByUserID(userID uint) (*models.Subscription, error)
	Upsert(sub *models.Subscription) error
	Deactivate(userID uint) error
	// CreateOrderWithSubscription persists the order row and upserts the
	// subscription row in one transaction; afterwards either both exist or
	// neither does.
	CreateOrderWithSubscription(order *models.Order, sub *models.Subscription) error
}

// ErrNotFound is returned when no active subscription row exists.
var ErrNotFound = gorm.ErrRecordNotFound

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a subscription repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetActiveByUserID(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) Upsert(sub *models.Subscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"tier",
			"end_date",
			"is_active",
			"auto_renew",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("user_id = ?", sub.UserID).First(sub).Error
}

func (r *gormRepository) Deactivate(userID uint) error {
	res := r.db.Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"is_active": false, "auto_renew": false})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) CreateOrderWithSubscription(order *models.Order, sub *models.Subscription) error {
	if order == nil || sub == nil {
		return errors.New("order and subscription are required")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"tier",
				"end_date",
				"is_active",
				"auto_renew",
				"updated_at",
			}),
		}).Create(sub).Error
	})
}
