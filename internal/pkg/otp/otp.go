// Package otp issues and verifies short-lived numeric login codes for the
// phone sign-in flow. Codes live in Redis so every app instance sees the
// same state.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/cache"
)

const (
	codeTTL     = 5 * time.Minute
	maxAttempts = 3

	codeKeyFormat     = "otp:code:%s"
	attemptsKeyFormat = "otp:attempts:%s"
)

var (
	// ErrExpired means no code is pending for the phone number, either
	// because none was requested or because it timed out.
	ErrExpired = errors.New("code expired or not requested")
	// ErrMismatch means the submitted code was wrong but retries remain.
	ErrMismatch = errors.New("code does not match")
	// ErrTooManyAttempts means the pending code was invalidated after
	// repeated wrong submissions. A new code must be requested.
	ErrTooManyAttempts = errors.New("too many attempts")
)

// GenerateCode creates a random 6-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue stores a fresh code for the phone number, replacing any pending one
// and resetting the attempt counter.
func Issue(phone string) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", err
	}
	if err := cache.Set(fmt.Sprintf(codeKeyFormat, phone), code, codeTTL); err != nil {
		return "", err
	}
	if err := cache.Set(fmt.Sprintf(attemptsKeyFormat, phone), "0", codeTTL); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the submitted code. On success the pending code is consumed.
// After maxAttempts wrong submissions the code is invalidated and the caller
// has to request a new one.
func Verify(phone, submitted string) error {
	codeKey := fmt.Sprintf(codeKeyFormat, phone)
	attemptsKey := fmt.Sprintf(attemptsKeyFormat, phone)

	stored, err := cache.Get(codeKey)
	if err != nil || stored == "" {
		return ErrExpired
	}

	attempts, _ := cache.GetInt(attemptsKey)
	if attempts >= maxAttempts {
		invalidate(phone)
		return ErrTooManyAttempts
	}

	if submitted != stored {
		attempts++
		if attempts >= maxAttempts {
			invalidate(phone)
			return ErrTooManyAttempts
		}
		_ = cache.Set(attemptsKey, strconv.Itoa(attempts), codeTTL)
		return ErrMismatch
	}

	invalidate(phone)
	return nil
}

func invalidate(phone string) {
	_ = cache.Delete(fmt.Sprintf(codeKeyFormat, phone))
	_ = cache.Delete(fmt.Sprintf(attemptsKeyFormat, phone))
}
