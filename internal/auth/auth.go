// Package auth issues and verifies the bearer tokens protecting the API.
// Tokens are HS256 JWTs carrying the user id; passwords are bcrypt-hashed.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"finanzo/internal/core"
)

type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// HashPassword applies the basic password policy and returns the bcrypt hash.
func (s *Service) HashPassword(password string) ([]byte, error) {
	if len(password) < 6 {
		return nil, fmt.Errorf("password too short (min 6)")
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword compares a candidate password against a stored hash.
func (s *Service) CheckPassword(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return core.ErrNotAuthenticated
	}
	return nil
}

// IssueToken mints a signed token for a user.
func (s *Service) IssueToken(userID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token and returns the user id it was issued for.
// Any failure maps to ErrNotAuthenticated; callers redirect to login.
func (s *Service) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", core.ErrNotAuthenticated
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", core.ErrNotAuthenticated
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", core.ErrNotAuthenticated
	}
	return sub, nil
}

// FromBearerHeader extracts the token from an Authorization header value.
func FromBearerHeader(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) || len(header) <= len(prefix) {
		return "", core.ErrNotAuthenticated
	}
	return header[len(prefix):], nil
}

type contextKey struct{}

// WithUserID attaches the authenticated user id to a context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the authenticated user id, or ErrNotAuthenticated.
func UserID(ctx context.Context) (string, error) {
	id, _ := ctx.Value(contextKey{}).(string)
	if id == "" {
		return "", core.ErrNotAuthenticated
	}
	return id, nil
}
