package models

import "time"

const (
	OrderStatusCreated   = "created"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
)

// Order is the append-only audit trail of checkout completions. Rows are
// created exactly once per successful payment and never mutated or deleted
// by application code afterwards.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"order_id"`
	PaymentID string    `gorm:"type:varchar(100);not null" json:"payment_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Amount    int64     `gorm:"not null" json:"amount"` // smallest currency unit (paise)
	Currency  string    `gorm:"type:varchar(10);not null;default:'INR'" json:"currency"`
	Tier      string    `gorm:"type:varchar(20);not null" json:"tier"`
	Status    string    `gorm:"type:varchar(20);not null;default:'created';index" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
