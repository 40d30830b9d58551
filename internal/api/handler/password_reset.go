package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ForgotPassword mails a reset code to the account's address.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	if err := h.Resets.SendOTP(c.Request.Context(), req.Email); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "An OTP has been sent to your email address."})
}

// VerifyOTP exchanges a valid code for a reset token.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resetToken, err := h.Resets.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "OTP verified successfully.",
		"data":    gin.H{"reset_token": resetToken},
	})
}

// ResetPassword sets a new password and signs the user in again.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	token, err := h.Resets.ResetPassword(c.Request.Context(), req.Email, req.ResetToken, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your password has been reset successfully.", "token": token})
}
