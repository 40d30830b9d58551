package handler

import (
	"complaintdesk/backend/internal/apperr"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const msgServerError = "Server Error"

func (h *Handler) lang(c *gin.Context) string {
	return h.Localizer.Negotiate(c.GetHeader("Accept-Language"))
}

// respondError renders err as {"message", "errors"} with the status of its
// kind. Causes of unexpected failures are logged, never returned.
func (h *Handler) respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
		return
	}

	if appErr.Kind == apperr.GeneralFailure {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), appErr)
	}

	body := gin.H{"message": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	c.AbortWithStatusJSON(appErr.Kind.Status(), body)
}

// bindError turns a binding failure into a localized validation error.
func (h *Handler) bindError(c *gin.Context, err error) {
	lang := h.lang(c)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		h.respondError(c, apperr.New(apperr.Validation, h.Localizer.GetString(lang, "validation.malformed")))
		return
	}

	fields := make(map[string][]string, len(verrs))
	first := ""
	for _, fe := range verrs {
		msg := h.fieldMessage(lang, fe)
		if first == "" {
			first = msg
		}
		fields[fe.Field()] = append(fields[fe.Field()], msg)
	}
	h.respondError(c, apperr.Fields(first, fields))
}

func (h *Handler) fieldMessage(lang string, fe validator.FieldError) string {
	attrKey := "attributes." + fe.Field()
	attribute := h.Localizer.GetString(lang, attrKey)
	if attribute == attrKey {
		attribute = strings.ReplaceAll(fe.Field(), "_", " ")
	}

	key := "validation." + fe.ActualTag()
	if h.Localizer.GetString(lang, key) == key {
		key = "validation.default"
	}
	return h.Localizer.Translate(lang, key, map[string]string{
		"attribute": attribute,
		"param":     fe.Param(),
	})
}
