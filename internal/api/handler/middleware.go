package handler

import (
	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/auth"
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// RequireAuth rejects requests without a valid bearer token.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			h.respondError(c, auth.ErrUnauthenticated)
			return
		}
		session, err := h.Sessions.Authenticate(c.Request.Context(), raw)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// OptionalAuth attaches the session when a valid bearer token is present.
// A rejected token lets the request through anonymously; any other failure
// aborts it.
func (h *Handler) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c.GetHeader("Authorization")); ok {
			session, err := h.Sessions.Authenticate(c.Request.Context(), raw)
			switch {
			case err == nil:
				c.Set(sessionKey, session)
			case !apperr.Is(err, apperr.Authentication):
				h.respondError(c, err)
				return
			}
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*auth.Session)
	return session
}
