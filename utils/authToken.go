package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Expiration times for access tokens, per account kind.
	ProviderTokenExpiry = time.Hour
	PatientTokenExpiry  = 30 * time.Minute

	RoleProvider = "provider"
	RolePatient  = "patient"
)

// TokenClaims is the claim set carried by access tokens.
type TokenClaims struct {
	Email              string `json:"email"`
	Role               string `json:"role"`
	Specialization     string `json:"specialization,omitempty"`
	VerificationStatus string `json:"verification_status,omitempty"`
	jwt.RegisteredClaims
}

// AccessToken is a signed token together with its lifetime.
type AccessToken struct {
	Token     string
	ExpiresIn time.Duration
}

// TokenIssuer signs and parses HS256 access tokens with a shared secret.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

// IssueProviderToken signs a one hour token for a provider.
func (i *TokenIssuer) IssueProviderToken(subject, email, specialization, verificationStatus string) (AccessToken, error) {
	claims := TokenClaims{
		Email:              email,
		Role:               RoleProvider,
		Specialization:     specialization,
		VerificationStatus: verificationStatus,
	}
	return i.issue(subject, claims, ProviderTokenExpiry)
}

// IssuePatientToken signs a thirty minute token for a patient.
func (i *TokenIssuer) IssuePatientToken(subject, email string) (AccessToken, error) {
	return i.issue(subject, TokenClaims{Email: email, Role: RolePatient}, PatientTokenExpiry)
}

func (i *TokenIssuer) issue(subject string, claims TokenClaims, expiry time.Duration) (AccessToken, error) {
	now := i.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return AccessToken{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return AccessToken{Token: token, ExpiresIn: expiry}, nil
}

// ParseToken verifies the signature and expiry of tokenString.
func (i *TokenIssuer) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
