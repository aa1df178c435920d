package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

// User is an authenticated end-user. Accounts are created either with an
// email+password pair or with a verified phone number (OTP sign-in), so both
// identifiers are nullable but at least one is always set. Administrative
// privilege is not a user column; it lives in the admin_users table.
type User struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Name                string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Email               string         `gorm:"uniqueIndex;type:varchar(200);default:null" json:"email" validate:"omitempty,email,min=5,max=200"`
	Phone               string         `gorm:"uniqueIndex;type:varchar(20);default:null" json:"phone" validate:"omitempty,e164"`
	Password            string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	Status              string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	AvatarURL           string         `gorm:"type:varchar(255);default:null" json:"avatar_url" validate:"max=255"`
	ActivationToken     string         `gorm:"type:varchar(100);index" json:"-"`
	ActivationSentAt    *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	PasswordResetToken  string         `gorm:"type:varchar(100);default:null;index" json:"-"`
	PasswordResetSentAt *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	LastLoginAt         *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// CreateUser builds an email+password account pending activation.
func CreateUser(name string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:     name,
		Email:    email,
		Password: pw,
		Status:   STATUS_INACTIVE,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

// CreatePhoneUser builds an account for a phone number that just passed OTP
// verification. The password is a random placeholder; phone accounts sign in
// via OTP only.
func CreatePhoneUser(name string, phone string) (*User, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	pw, err := HashPassword(hex.EncodeToString(b))
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:     name,
		Phone:    phone,
		Password: pw,
		Status:   STATUS_ACTIVE, // OTP verification already proved ownership
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// GenerateActivationToken creates a random token and sets ActivationSentAt
func (u *User) GenerateActivationToken() error {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	u.ActivationToken = hex.EncodeToString(b)
	now := time.Now()
	u.ActivationSentAt = &now
	return nil
}

// GeneratePasswordResetToken creates a random token and sets PasswordResetSentAt
func (u *User) GeneratePasswordResetToken() error {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	u.PasswordResetToken = hex.EncodeToString(b)
	now := time.Now()
	u.PasswordResetSentAt = &now
	return nil
}

// IsPasswordResetTokenValid checks the reset token and its 24 hour window.
func (u *User) IsPasswordResetTokenValid(token string) bool {
	if u.PasswordResetToken == "" || u.PasswordResetSentAt == nil {
		return false
	}
	if u.PasswordResetToken != token {
		return false
	}
	return time.Since(*u.PasswordResetSentAt) < 24*time.Hour
}

// ClearPasswordResetRequest clears all password reset related fields
func (u *User) ClearPasswordResetRequest() {
	u.PasswordResetToken = ""
	u.PasswordResetSentAt = nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}
