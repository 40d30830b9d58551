package handler

import (
	"complaintdesk/backend/internal/auth"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/models"
	"context"

	"github.com/gin-gonic/gin"
)

// SessionService registers users and manages their bearer tokens.
type SessionService interface {
	Register(ctx context.Context, in auth.Registration) (string, *models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, session *auth.Session) error
	Authenticate(ctx context.Context, raw string) (*auth.Session, error)
}

// PasswordResetService runs the OTP based password reset.
type PasswordResetService interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	ResetPassword(ctx context.Context, email, resetToken, password string) (string, error)
}

// ComplaintService stores and looks up complaints.
type ComplaintService interface {
	Submit(ctx context.Context, data complaint.SubmissionData) (*models.Complaint, error)
	Configs(ctx context.Context) (*complaint.Configs, error)
	Search(ctx context.Context, q complaint.SearchQuery, callerID *uint) (*complaint.SearchResult, error)
	Show(ctx context.Context, id, callerID uint) (*models.Complaint, error)
}

// Handler holds the services behind the HTTP API.
type Handler struct {
	Sessions   SessionService
	Resets     PasswordResetService
	Complaints ComplaintService
	Localizer  *localization.Localizer
}

func NewHandler(sessions SessionService, resets PasswordResetService, complaints ComplaintService, localizer *localization.Localizer) *Handler {
	return &Handler{
		Sessions:   sessions,
		Resets:     resets,
		Complaints: complaints,
		Localizer:  localizer,
	}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	authGroup := r.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/forgot-password", h.ForgotPassword)
	authGroup.POST("/verify-otp", h.VerifyOTP)
	authGroup.POST("/reset-password", h.ResetPassword)
	authGroup.POST("/logout", h.RequireAuth(), h.Logout)

	complaints := r.Group("/complaints")
	complaints.GET("/configs", h.Configs)
	complaints.POST("/search", h.OptionalAuth(), h.SearchComplaint)
	complaints.POST("/create", h.RequireAuth(), h.CreateComplaint)
	complaints.GET("/:id", h.RequireAuth(), h.ShowComplaint)
}
