package models

import "time"

// AdminUser marks a user as an administrator. Presence of a row is the only
// source of truth for admin privilege; there is no role column on users.
type AdminUser struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
