package config

import "time"

const (
	// Complaint
	TitleMinLength        = 3
	TitleMaxLength        = 255
	TextMinLength         = 10
	TextMaxLength         = 5000
	LocationTextMaxLength = 500

	// Attachments
	MaxAttachments       = 5
	MaxAttachmentBytes   = 10 << 20
	AttachmentPathRoot   = "attachments"
	MultipartMemoryLimit = 32 << 20

	// Password reset
	OTPMin              = 100000
	OTPMax              = 999999
	ResetTokenLength    = 60
	ResetTokenTTL       = 10 * time.Minute
	DefaultOTPExpiry    = 10 * time.Minute
	PasswordMinLength   = 8
	PasswordMaxBytes    = 72
	OTPCacheKeyPrefix   = "password_reset_otp_"
	TokenCacheKeyPrefix = "password_reset_token_"
)

// AttachmentMimeTypes maps every accepted file extension to the content
// types a file with that extension may sniff as.
var AttachmentMimeTypes = map[string][]string{
	"pdf":  {"application/pdf"},
	"png":  {"image/png"},
	"jpg":  {"image/jpeg"},
	"jpeg": {"image/jpeg"},
	"webp": {"image/webp"},
}
