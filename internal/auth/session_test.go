package auth_test

import (
	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/auth"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_IssuesWorkingToken(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()

	// Act
	token := f.register(t, "Lina@Example.com", "Secret123")
	session, err := f.sessions.Authenticate(ctx, token)

	// Assert
	require.NoError(t, err)
	user, err := f.store.FindUserByID(ctx, session.UserID)
	require.NoError(t, err)
	assert.Equal(t, "lina@example.com", user.Email)
	assert.NotEqual(t, "Secret123", user.Password)
}

func TestRegister_EmailTaken(t *testing.T) {
	f := newFixture(t)
	f.register(t, "lina@example.com", "Secret123")

	_, _, err := f.sessions.Register(context.Background(), auth.Registration{
		FirstName: "L", LastName: "H", Email: "LINA@example.com", PhoneNumber: "0912345678", Password: "Secret123",
	})

	requireKind(t, err, apperr.Validation)
	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"The email has already been taken."}, e.Fields["email"])
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.register(t, "lina@example.com", "Secret123")
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "lina@example.com", "Secret123", false},
		{"email case ignored", "LINA@example.com", "Secret123", false},
		{"wrong password", "lina@example.com", "Secret124", true},
		{"unknown email", "nobody@example.com", "Secret123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := f.sessions.Login(ctx, tt.email, tt.password)
			if tt.wantErr {
				requireKind(t, err, apperr.Validation)
				var e *apperr.Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "These credentials do not match our records.", e.Fields["email"][0])
				return
			}
			require.NoError(t, err)
			_, err = f.sessions.Authenticate(ctx, token)
			assert.NoError(t, err)
		})
	}
}

func TestLogout_RevokesOnlyCurrentToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.register(t, "lina@example.com", "Secret123")
	second, err := f.sessions.Login(ctx, "lina@example.com", "Secret123")
	require.NoError(t, err)

	session, err := f.sessions.Authenticate(ctx, first)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Logout(ctx, session))

	_, err = f.sessions.Authenticate(ctx, first)
	requireKind(t, err, apperr.Authentication)
	_, err = f.sessions.Authenticate(ctx, second)
	assert.NoError(t, err)

	// A second logout with the same session has nothing left to revoke.
	requireKind(t, f.sessions.Logout(ctx, session), apperr.Authentication)
	requireKind(t, f.sessions.Logout(ctx, nil), apperr.Authentication)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.register(t, "lina@example.com", "Secret123")

	other := auth.NewTokenIssuer(f.store, "another-secret", time.Hour)
	forged, err := other.Issue(ctx, 1)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong secret": forged,
		"truncated":    token[:len(token)-4],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.sessions.Authenticate(ctx, raw)
			requireKind(t, err, apperr.Authentication)
		})
	}
}

func TestAuthenticate_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.register(t, "lina@example.com", "Secret123")

	f.issuer.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := f.sessions.Authenticate(ctx, token)
	requireKind(t, err, apperr.Authentication)
}

func TestAuthenticate_TouchesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.register(t, "lina@example.com", "Secret123")

	session, err := f.sessions.Authenticate(ctx, token)
	require.NoError(t, err)

	row, err := f.store.FindAccessToken(ctx, session.TokenID)
	require.NoError(t, err)
	assert.NotNil(t, row.LastUsedAt)
}

func TestRegister_PasswordByteLimit(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"72 bytes", "Aa1" + strings.Repeat("x", 69), false},
		{"73 bytes", "Aa1" + strings.Repeat("x", 70), true},
		{"80 bytes", "Aa1" + strings.Repeat("x", 77), true},
		{"multibyte counted in bytes", "Aa1" + strings.Repeat("é", 35), true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, _, err := f.sessions.Register(context.Background(), auth.Registration{
				FirstName:   "Lina",
				LastName:    "Haddad",
				Email:       fmt.Sprintf("user%d@example.com", i),
				PhoneNumber: "0912345678",
				Password:    tt.password,
			})

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			requireKind(t, err, apperr.Validation)
			var e *apperr.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, []string{"The password may not be greater than 72 bytes."}, e.Fields["password"])
		})
	}
}
