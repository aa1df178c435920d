package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByPhone retrieves a user by their phone number
func (r *userRepository) GetByPhone(phone string) (*models.User, error) {
	var user models.User
	err := r.db.Where("phone = ?", phone).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByActivationToken retrieves a user by their activation token
func (r *userRepository) GetByActivationToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.Where("activation_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByPasswordResetToken retrieves a user by their password reset token
func (r *userRepository) GetByPasswordResetToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.Where("password_reset_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete soft deletes a user by their ID
func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// List retrieves a paginated list of users
func (r *userRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// Search searches for users by name, email or phone
func (r *userRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?",
		searchPattern, searchPattern, searchPattern).Find(&users).Error
	return users, err
}

// GetWithSubscriptions retrieves users joined with their subscription and
// admin flag for the back-office listing.
func (r *userRepository) GetWithSubscriptions(offset, limit int) ([]UserWithSubscription, error) {
	users, err := r.List(offset, limit)
	if err != nil {
		return nil, err
	}
	return r.attachSubscriptions(users)
}

// SearchWithSubscriptions searches users and joins subscription data
func (r *userRepository) SearchWithSubscriptions(query string) ([]UserWithSubscription, error) {
	users, err := r.Search(query)
	if err != nil {
		return nil, err
	}
	return r.attachSubscriptions(users)
}

func (r *userRepository) attachSubscriptions(users []models.User) ([]UserWithSubscription, error) {
	if len(users) == 0 {
		return []UserWithSubscription{}, nil
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var subs []models.Subscription
	if err := r.db.Where("user_id IN ? AND is_active = ?", ids, true).Find(&subs).Error; err != nil {
		return nil, err
	}
	subByUser := make(map[uint]models.Subscription, len(subs))
	for _, s := range subs {
		subByUser[s.UserID] = s
	}

	var admins []models.AdminUser
	if err := r.db.Where("user_id IN ?", ids).Find(&admins).Error; err != nil {
		return nil, err
	}
	adminSet := make(map[uint]bool, len(admins))
	for _, a := range admins {
		adminSet[a.UserID] = true
	}

	now := time.Now()
	result := make([]UserWithSubscription, 0, len(users))
	for _, u := range users {
		row := UserWithSubscription{User: u, Tier: models.TierNone, IsAdmin: adminSet[u.ID]}
		if s, ok := subByUser[u.ID]; ok && !s.IsExpired(now) {
			row.Tier = s.Tier
			row.EndDate = s.EndDate
		}
		result = append(result, row)
	}
	return result, nil
}
