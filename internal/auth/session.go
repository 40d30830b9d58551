package auth

import (
	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
)

const (
	msgEmailTaken      = "The email has already been taken."
	msgBadCredentials  = "These credentials do not match our records."
	msgAccountNotFound = "The selected email is invalid."
	msgPasswordTooLong = "The password may not be greater than 72 bytes."
)

// UserStore is the user directory the account flows read and write.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateUserPassword(ctx context.Context, userID uint, hash string) error
}

// Registration holds the fields of a new account.
type Registration struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
}

// SessionService registers users and opens and closes their sessions.
type SessionService struct {
	Users  UserStore
	Tokens *TokenIssuer
}

func NewSessionService(users UserStore, tokens *TokenIssuer) *SessionService {
	return &SessionService{Users: users, Tokens: tokens}
}

// Register creates the account and returns a token for it.
func (s *SessionService) Register(ctx context.Context, in Registration) (string, *models.User, error) {
	taken, err := s.Users.EmailExists(ctx, in.Email)
	if err != nil {
		return "", nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return "", nil, apperr.Field("email", msgEmailTaken)
	}

	user := &models.User{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
	}
	if err := hashPassword(user, in.Password); err != nil {
		return "", nil, err
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return "", nil, apperr.Field("email", msgEmailTaken)
		}
		return "", nil, err
	}

	token, err := s.Tokens.Issue(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	log.Printf("INFO: User %d registered", user.ID)
	return token, user, nil
}

// Login checks the credentials and issues a new token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Users.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return "", apperr.Field("email", msgBadCredentials)
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if !user.CheckPassword(password) {
		return "", apperr.Field("email", msgBadCredentials)
	}
	return s.Tokens.Issue(ctx, user.ID)
}

// Logout revokes the token behind session.
func (s *SessionService) Logout(ctx context.Context, session *Session) error {
	if session == nil {
		return ErrUnauthenticated
	}
	return s.Tokens.Revoke(ctx, session.TokenID)
}

// Authenticate verifies a raw bearer token.
func (s *SessionService) Authenticate(ctx context.Context, raw string) (*Session, error) {
	if raw == "" {
		return nil, ErrUnauthenticated
	}
	return s.Tokens.Verify(ctx, raw)
}

// hashPassword sets the bcrypt hash on user. bcrypt only reads the first
// PasswordMaxBytes bytes, so longer input is a validation failure.
func hashPassword(user *models.User, password string) error {
	if len(password) > config.PasswordMaxBytes {
		return apperr.Field("password", msgPasswordTooLong)
	}
	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return nil
}
