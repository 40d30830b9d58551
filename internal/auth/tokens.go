// Package auth issues and verifies bearer tokens and runs the account
// flows built on them: registration, login, logout and password reset.
package auth

import (
	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer = "complaintdesk-service"
	tokenName   = "auth_token"
)

// ErrUnauthenticated is reported for any missing, malformed, expired or
// revoked bearer token.
var ErrUnauthenticated = apperr.New(apperr.Authentication, "Unauthenticated.")

// TokenStore persists issued tokens so they can be revoked.
type TokenStore interface {
	CreateAccessToken(ctx context.Context, token *models.AccessToken) error
	FindAccessToken(ctx context.Context, tokenID string) (*models.AccessToken, error)
	TouchAccessToken(ctx context.Context, tokenID string, at time.Time) error
	DeleteAccessToken(ctx context.Context, tokenID string) error
}

// Session is the identity behind a verified bearer token.
type Session struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

type claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer signs HS256 tokens and records each one as an access token
// row. A token is honoured only while its row exists.
type TokenIssuer struct {
	Store  TokenStore
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewTokenIssuer(store TokenStore, secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{Store: store, Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

// Issue creates a new token for userID.
func (t *TokenIssuer) Issue(ctx context.Context, userID uint) (string, error) {
	now := t.Now()
	jti := uuid.NewString()
	expiresAt := now.Add(t.TTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			ID:        jti,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(t.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	row := &models.AccessToken{
		UserID:    userID,
		TokenID:   jti,
		Name:      tokenName,
		ExpiresAt: expiresAt,
	}
	if err := t.Store.CreateAccessToken(ctx, row); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and revocation state of raw.
func (t *TokenIssuer) Verify(ctx context.Context, raw string) (*Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.Now),
	)
	if err != nil || c.ID == "" {
		return nil, ErrUnauthenticated
	}

	row, err := t.Store.FindAccessToken(ctx, c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if !row.ExpiresAt.After(t.Now()) {
		return nil, ErrUnauthenticated
	}

	if err := t.Store.TouchAccessToken(ctx, row.TokenID, t.Now()); err != nil {
		log.Printf("WARNING: Failed to touch access token %s: %v", row.TokenID, err)
	}

	return &Session{UserID: row.UserID, TokenID: row.TokenID, ExpiresAt: row.ExpiresAt}, nil
}

// Revoke deletes the token row so the token is no longer honoured.
func (t *TokenIssuer) Revoke(ctx context.Context, tokenID string) error {
	err := t.Store.DeleteAccessToken(ctx, tokenID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUnauthenticated
	}
	return err
}
