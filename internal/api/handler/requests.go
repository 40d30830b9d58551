package handler

import (
	"encoding/json"
	"mime/multipart"
)

type registerRequest struct {
	FirstName            string `json:"first_name" binding:"required,max=255"`
	LastName             string `json:"last_name" binding:"required,max=255"`
	PhoneNumber          string `json:"phone_number" binding:"required,min=10,max=20"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8,password_bytes,password_policy,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type resetPasswordRequest struct {
	Email                string `json:"email" binding:"required,email"`
	ResetToken           string `json:"reset_token" binding:"required"`
	Password             string `json:"password" binding:"required,min=8,password_bytes,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
}

// createComplaintRequest is bound from a multipart form. Attachments are read
// from the form separately since clients send them as "attachments" or
// "attachments[]". Text fields are trimmed before binding.
type createComplaintRequest struct {
	DestinationID uint   `form:"destination_id" binding:"required"`
	CategoryID    uint   `form:"category_id" binding:"required"`
	TypeID        *uint  `form:"type_id"`
	Title         string `form:"title" binding:"required,complaint_title"`
	Text          string `form:"text" binding:"required,complaint_text"`
	LocationText  string `form:"LocationText" binding:"location_text"`
	LocationLat   string `form:"LocationLat" binding:"omitempty,latitude"`
	LocationLng   string `form:"LocationLng" binding:"omitempty,longitude"`
}

type searchComplaintRequest struct {
	ComplaintNumber json.Number `json:"complaint_number" binding:"required,numeric"`
	Email           string      `json:"email" binding:"required,email"`
	PhoneNumber     string      `json:"phone_number" binding:"required,len=10,numeric"`
}

func formFiles(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	files := append([]*multipart.FileHeader{}, form.File["attachments"]...)
	return append(files, form.File["attachments[]"]...)
}
