package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/o1egl/paseto"
)

const (
	VerificationTokenExpiry = 24 * time.Hour

	purposeEmailVerification = "email_verification"
)

var ErrInvalidVerificationToken = errors.New("invalid or expired verification token")

// VerificationClaims identifies the account an emailed link belongs to.
type VerificationClaims struct {
	Subject string    `json:"sub"`
	Role    string    `json:"role"`
	Purpose string    `json:"purpose"`
	Expiry  time.Time `json:"exp"`
}

// VerificationTokenMaker encrypts email verification claims into PASETO v2
// local tokens.
type VerificationTokenMaker struct {
	key []byte
	now func() time.Time
}

// NewVerificationTokenMaker requires a 32 byte symmetric key.
func NewVerificationTokenMaker(symmetricKey string) (*VerificationTokenMaker, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be 32 bytes long, got %d", len(symmetricKey))
	}
	return &VerificationTokenMaker{key: []byte(symmetricKey), now: time.Now}, nil
}

// Generate returns a token verifying the email of subject.
func (m *VerificationTokenMaker) Generate(subject, role string) (string, error) {
	claims := VerificationClaims{
		Subject: subject,
		Role:    role,
		Purpose: purposeEmailVerification,
		Expiry:  m.now().Add(VerificationTokenExpiry),
	}
	token, err := paseto.NewV2().Encrypt(m.key, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return token, nil
}

// Validate decrypts token and checks its purpose, role and expiry.
func (m *VerificationTokenMaker) Validate(token, role string) (*VerificationClaims, error) {
	var claims VerificationClaims
	if err := paseto.NewV2().Decrypt(token, m.key, &claims, nil); err != nil {
		return nil, ErrInvalidVerificationToken
	}
	if claims.Purpose != purposeEmailVerification || claims.Role != role {
		return nil, ErrInvalidVerificationToken
	}
	if m.now().After(claims.Expiry) {
		return nil, ErrInvalidVerificationToken
	}
	return &claims, nil
}
