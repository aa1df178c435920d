package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

// adminRepository implements the AdminRepository interface over the
// admin_users table, the single source of admin truth.
type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository instance
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// IsAdmin reports whether userID has an admin_users row.
func (r *adminRepository) IsAdmin(userID uint) (bool, error) {
	var admin models.AdminUser
	err := r.db.Where("user_id = ?", userID).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Grant makes userID an admin. Granting an existing admin is a no-op.
func (r *adminRepository) Grant(userID uint) error {
	admin := models.AdminUser{UserID: userID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error
}

// Revoke removes userID's admin role. Revoking a non-admin is a no-op.
func (r *adminRepository) Revoke(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.AdminUser{}).Error
}

// ListAdminIDs returns the user IDs of all admins.
func (r *adminRepository) ListAdminIDs() ([]uint, error) {
	var admins []models.AdminUser
	if err := r.db.Find(&admins).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}
