package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	GetByPasswordResetToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
	GetWithSubscriptions(offset, limit int) ([]UserWithSubscription, error)
	SearchWithSubscriptions(query string) ([]UserWithSubscription, error)
}

// AdminRepository defines the interface for admin role checks and management
type AdminRepository interface {
	IsAdmin(userID uint) (bool, error)
	Grant(userID uint) error
	Revoke(userID uint) error
	ListAdminIDs() ([]uint, error)
}

// OrderRepository defines the interface for order history access. Orders are
// append-only; there is no update or delete.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByOrderID(orderID string) (*models.Order, error)
	GetByUserID(userID uint) ([]models.Order, error)
	List(offset, limit int) ([]models.Order, error)
	ListBetween(start, end time.Time) ([]models.Order, error)
	Count() (int64, error)
}

// ChatRepository defines the interface for chat history persistence
type ChatRepository interface {
	Create(message *models.ChatMessage) error
	GetByUserID(userID uint, offset, limit int) ([]models.ChatMessage, error)
	CountByUserID(userID uint) (int64, error)
	DeleteByUUID(userID uint, uuid string) error
	DeleteByUserID(userID uint) error
}

// WebhookRepository defines the interface for gateway webhook event
// persistence. Record deduplicates on the provider event id.
type WebhookRepository interface {
	Record(event *models.PaymentWebhookEvent) (created bool, err error)
	MarkProcessed(id uint, processErr error) error
}

// UserWithSubscription combines a user row with its effective subscription
// for admin listings.
type UserWithSubscription struct {
	models.User
	Tier    string
	EndDate *time.Time
	IsAdmin bool
}

// Repositories struct holds all repository instances
type Repositories struct {
	User    UserRepository
	Admin   AdminRepository
	Order   OrderRepository
	Chat    ChatRepository
	Webhook WebhookRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Admin:   NewAdminRepository(db),
		Order:   NewOrderRepository(db),
		Chat:    NewChatRepository(db),
		Webhook: NewWebhookRepository(db),
	}
}
