package utils

import (
	"HealthFirst/cache"
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"
)

const (
	ResetCodeExpiry = 15 * time.Minute
	// MaxResetAttempts wrong guesses invalidate the outstanding code.
	MaxResetAttempts = 5
)

// ErrResetUnavailable is returned when no Redis backs the code store.
var ErrResetUnavailable = errors.New("password reset is unavailable")

// ResetCodeStore keeps one-time password reset codes in Redis.
type ResetCodeStore struct {
	cache *cache.Cache
}

func NewResetCodeStore(c *cache.Cache) *ResetCodeStore {
	return &ResetCodeStore{cache: c}
}

// Available reports whether codes can be issued and verified.
func (s *ResetCodeStore) Available() bool {
	return s != nil && s.cache.Enabled()
}

// GenerateResetCode generates a random 6-digit reset code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue creates and stores a fresh code for the account, replacing any earlier one.
func (s *ResetCodeStore) Issue(ctx context.Context, role, email string) (string, error) {
	if !s.Available() {
		return "", ErrResetUnavailable
	}
	code, err := GenerateResetCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	if err := s.cache.Set(ctx, resetCodeKey(role, email), code, ResetCodeExpiry); err != nil {
		return "", fmt.Errorf("failed to store reset code: %w", err)
	}
	if err := s.cache.Delete(ctx, resetAttemptsKey(role, email)); err != nil {
		return "", fmt.Errorf("failed to reset attempt counter: %w", err)
	}
	return code, nil
}

// Verify reports whether code matches the stored code for the account.
// Every mismatch is counted; the code is discarded after MaxResetAttempts.
func (s *ResetCodeStore) Verify(ctx context.Context, role, email, code string) (bool, error) {
	if !s.Available() {
		return false, ErrResetUnavailable
	}
	stored, err := s.cache.Get(ctx, resetCodeKey(role, email))
	if err != nil {
		return false, fmt.Errorf("failed to read reset code: %w", err)
	}
	if stored == "" {
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1 {
		return true, nil
	}

	attempts, err := s.cache.Incr(ctx, resetAttemptsKey(role, email), ResetCodeExpiry)
	if err != nil {
		return false, fmt.Errorf("failed to count reset attempts: %w", err)
	}
	if attempts >= MaxResetAttempts {
		if err := s.Delete(ctx, role, email); err != nil {
			return false, fmt.Errorf("failed to discard reset code: %w", err)
		}
	}
	return false, nil
}

// Delete removes the stored code and its attempt counter.
func (s *ResetCodeStore) Delete(ctx context.Context, role, email string) error {
	return s.cache.Delete(ctx, resetCodeKey(role, email), resetAttemptsKey(role, email))
}

func resetCodeKey(role, email string) string {
	return "reset_code:" + role + ":" + email
}

func resetAttemptsKey(role, email string) string {
	return "reset_attempts:" + role + ":" + email
}
