package repository

import (
	"gorm.io/gorm"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

// chatRepository implements the ChatRepository interface
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository instance
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Create persists a chat message
func (r *chatRepository) Create(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

// GetByUserID retrieves a user's chat history in chronological order
func (r *chatRepository) GetByUserID(userID uint, offset, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").Offset(offset).Limit(limit).Find(&messages).Error
	return messages, err
}

// CountByUserID returns how many messages a user has stored
func (r *chatRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChatMessage{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeleteByUUID removes a single message. The user scope keeps one user from
// deleting another's messages.
func (r *chatRepository) DeleteByUUID(userID uint, uuid string) error {
	result := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).Delete(&models.ChatMessage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByUserID clears a user's entire chat history
func (r *chatRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.ChatMessage{}).Error
}
