package models

import "time"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one line of a user's tutoring conversation.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UUID      string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Class     int       `gorm:"default:0" json:"class"`
	Board     string    `gorm:"type:varchar(10);default:null" json:"board"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
