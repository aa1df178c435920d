package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

// webhookRepository implements the WebhookRepository interface using GORM
type webhookRepository struct {
	db *gorm.DB
}

// NewWebhookRepository creates a new webhook event repository instance
func NewWebhookRepository(db *gorm.DB) WebhookRepository {
	return &webhookRepository{db: db}
}

// Record stores a webhook delivery. A redelivery with a known provider
// event id is not inserted again; the existing row is loaded instead and
// created is false.
func (r *webhookRepository) Record(event *models.PaymentWebhookEvent) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(event)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	err := r.db.Where("provider_event_id = ?", event.ProviderEventID).First(event).Error
	return false, err
}

// MarkProcessed stamps the event as handled, recording the failure if any.
func (r *webhookRepository) MarkProcessed(id uint, processErr error) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": "",
	}
	if processErr != nil {
		updates["processing_error"] = processErr.Error()
	}
	return r.db.Model(&models.PaymentWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
