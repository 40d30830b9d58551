package auth_test

import (
	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/auth"
	"complaintdesk/backend/internal/mail"
	"complaintdesk/backend/internal/storage"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type fixture struct {
	store    *storage.Service
	redis    *miniredis.Miniredis
	issuer   *auth.TokenIssuer
	sessions *auth.SessionService
	resets   *auth.PasswordResetService
	mailer   *MockMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, storage.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := storage.NewStorageService(db, rdb)
	issuer := auth.NewTokenIssuer(store, "test-secret", time.Hour)
	mailer := new(MockMailer)

	return &fixture{
		store:    store,
		redis:    mr,
		issuer:   issuer,
		sessions: auth.NewSessionService(store, issuer),
		resets:   auth.NewPasswordResetService(store, store, mailer, issuer, 10*time.Minute),
		mailer:   mailer,
	}
}

func (f *fixture) register(t *testing.T, email, password string) string {
	t.Helper()
	token, _, err := f.sessions.Register(context.Background(), auth.Registration{
		FirstName:   "Lina",
		LastName:    "Haddad",
		Email:       email,
		PhoneNumber: "0912345678",
		Password:    password,
	})
	require.NoError(t, err)
	return token
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "unexpected error: %v", err)
}
