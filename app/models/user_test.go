package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	user, err := CreateUser("Anita Das", "anita@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, STATUS_INACTIVE, user.Status, "email accounts start inactive until activation")
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.False(t, user.IsActive())
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("A", "anita@example.com", "secret123")
	assert.Error(t, err, "single character names are rejected")

	_, err = CreateUser("Anita Das", "not-an-email", "secret123")
	assert.Error(t, err)
}

func TestCreatePhoneUser(t *testing.T) {
	user, err := CreatePhoneUser("Student", "+919876543210")
	require.NoError(t, err)

	assert.Equal(t, STATUS_ACTIVE, user.Status, "OTP verification already proved ownership")
	assert.Empty(t, user.Email)
	assert.NotEmpty(t, user.Password, "placeholder password must be set")
}

func TestActivationToken(t *testing.T) {
	user, err := CreateUser("Anita Das", "anita@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, user.GenerateActivationToken())
	assert.NotEmpty(t, user.ActivationToken)
	assert.NotNil(t, user.ActivationSentAt)
}

func TestPasswordResetTokenLifecycle(t *testing.T) {
	user, err := CreateUser("Anita Das", "anita@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, user.GeneratePasswordResetToken())
	token := user.PasswordResetToken
	require.NotEmpty(t, token)

	assert.True(t, user.IsPasswordResetTokenValid(token))
	assert.False(t, user.IsPasswordResetTokenValid("other-token"))

	// Tokens older than 24 hours are rejected.
	stale := time.Now().Add(-25 * time.Hour)
	user.PasswordResetSentAt = &stale
	assert.False(t, user.IsPasswordResetTokenValid(token))

	user.ClearPasswordResetRequest()
	assert.Empty(t, user.PasswordResetToken)
	assert.Nil(t, user.PasswordResetSentAt)
}

func TestSetPassword(t *testing.T) {
	user, err := CreateUser("Anita Das", "anita@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, user.SetPassword("newsecret"))
	assert.True(t, user.CheckPassword("newsecret"))
	assert.False(t, user.CheckPassword("secret123"))
}
