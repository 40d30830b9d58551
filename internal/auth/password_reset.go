package auth

import (
	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/mail"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strconv"
	"time"
)

const (
	msgOTPInvalid   = "The provided OTP is invalid or has expired."
	msgResetInvalid = "The reset token is invalid or has expired."
	msgMailFailed   = "We could not send the OTP email. Please try again."

	resetTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// SecretStore keeps short-lived secrets with a TTL. A missing or expired
// key reports ok=false.
type SecretStore interface {
	PutSecret(ctx context.Context, key, value string, ttl time.Duration) error
	GetSecret(ctx context.Context, key string) (value string, ok bool, err error)
	ForgetSecret(ctx context.Context, key string) error
}

// PasswordResetService moves an account through
// OTP sent -> OTP verified (reset token issued) -> password replaced.
type PasswordResetService struct {
	Users     UserStore
	Secrets   SecretStore
	Mailer    mail.Mailer
	Tokens    *TokenIssuer
	OTPExpiry time.Duration
}

func NewPasswordResetService(users UserStore, secrets SecretStore, mailer mail.Mailer, tokens *TokenIssuer, otpExpiry time.Duration) *PasswordResetService {
	if otpExpiry <= 0 {
		otpExpiry = config.DefaultOTPExpiry
	}
	return &PasswordResetService{
		Users:     users,
		Secrets:   secrets,
		Mailer:    mailer,
		Tokens:    tokens,
		OTPExpiry: otpExpiry,
	}
}

func otpKey(email string) string   { return config.OTPCacheKeyPrefix + email }
func tokenKey(email string) string { return config.TokenCacheKeyPrefix + email }

// SendOTP stores a fresh code for the account and mails it. A new request
// replaces any code still pending.
func (s *PasswordResetService) SendOTP(ctx context.Context, email string) error {
	user, err := s.Users.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.Field("email", msgAccountNotFound)
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.Secrets.PutSecret(ctx, otpKey(user.Email), otp, s.OTPExpiry); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	msg := mail.PasswordResetOTP(user.Email, user.FirstName+" "+user.LastName, otp, s.OTPExpiry)
	if err := s.Mailer.Send(ctx, msg); err != nil {
		log.Printf("ERROR: Failed to send OTP to user %d: %v", user.ID, err)
		return apperr.Wrap(apperr.GeneralFailure, msgMailFailed, err)
	}
	return nil
}

// VerifyOTP exchanges a valid code for a reset token. The code is consumed.
// An unknown email fails exactly like a wrong code.
func (s *PasswordResetService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	email = models.NormalizeEmail(email)

	stored, ok, err := s.Secrets.GetSecret(ctx, otpKey(email))
	if err != nil {
		return "", fmt.Errorf("load otp: %w", err)
	}
	if !ok || !secretEqual(stored, otp) {
		return "", apperr.Field("otp", msgOTPInvalid)
	}

	token, err := generateResetToken()
	if err != nil {
		return "", err
	}
	if err := s.Secrets.PutSecret(ctx, tokenKey(email), token, config.ResetTokenTTL); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	if err := s.Secrets.ForgetSecret(ctx, otpKey(email)); err != nil {
		log.Printf("WARNING: Failed to forget OTP for %s: %v", email, err)
	}
	return token, nil
}

// ResetPassword replaces the password when the reset token matches and
// returns a new bearer token. The reset token is consumed. The account is
// only loaded once the token checks out.
func (s *PasswordResetService) ResetPassword(ctx context.Context, email, resetToken, password string) (string, error) {
	email = models.NormalizeEmail(email)

	stored, ok, err := s.Secrets.GetSecret(ctx, tokenKey(email))
	if err != nil {
		return "", fmt.Errorf("load reset token: %w", err)
	}
	if !ok || !secretEqual(stored, resetToken) {
		return "", apperr.Field("reset_token", msgResetInvalid)
	}

	user, err := s.Users.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return "", apperr.Field("reset_token", msgResetInvalid)
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := hashPassword(user, password); err != nil {
		return "", err
	}
	if err := s.Users.UpdateUserPassword(ctx, user.ID, user.Password); err != nil {
		return "", fmt.Errorf("save password: %w", err)
	}
	if err := s.Secrets.ForgetSecret(ctx, tokenKey(email)); err != nil {
		log.Printf("WARNING: Failed to forget reset token for user %d: %v", user.ID, err)
	}

	log.Printf("INFO: Password reset for user %d", user.ID)
	return s.Tokens.Issue(ctx, user.ID)
}

func secretEqual(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// generateOTP returns a uniformly random code in [OTPMin, OTPMax].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(config.OTPMax-config.OTPMin+1))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+config.OTPMin, 10), nil
}

func generateResetToken() (string, error) {
	max := big.NewInt(int64(len(resetTokenAlphabet)))
	b := make([]byte, config.ResetTokenLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate reset token: %w", err)
		}
		b[i] = resetTokenAlphabet[n.Int64()]
	}
	return string(b), nil
}
