package handler

import (
	"complaintdesk/backend/internal/config"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom rules and reports field names by
// their json or form tag. It must run before the first request is bound.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(wireName)
	if err := v.RegisterValidation("password_policy", passwordPolicy); err != nil {
		return err
	}
	if err := v.RegisterValidation("max_bytes", maxBytes); err != nil {
		return err
	}

	v.RegisterAlias("complaint_title", fmt.Sprintf("min=%d,max=%d", config.TitleMinLength, config.TitleMaxLength))
	v.RegisterAlias("complaint_text", fmt.Sprintf("min=%d,max=%d", config.TextMinLength, config.TextMaxLength))
	v.RegisterAlias("location_text", fmt.Sprintf("max=%d", config.LocationTextMaxLength))
	v.RegisterAlias("password_bytes", fmt.Sprintf("max_bytes=%d", config.PasswordMaxBytes))
	return nil
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// passwordPolicy requires the minimum length plus at least one upper case
// letter, one lower case letter and one digit.
func passwordPolicy(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len([]rune(value)) < config.PasswordMinLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// maxBytes bounds the encoded length of a string, unlike max which counts
// runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// trimFormFields strips surrounding whitespace from the named form values in
// place, so binding validates the values that get stored.
func trimFormFields(r *http.Request, keys ...string) {
	// Populates r.Form and r.PostForm even when the body is not multipart.
	_ = r.ParseMultipartForm(config.MultipartMemoryLimit)

	sources := []map[string][]string{r.Form, r.PostForm}
	if r.MultipartForm != nil {
		sources = append(sources, r.MultipartForm.Value)
	}
	for _, values := range sources {
		for _, key := range keys {
			for i, v := range values[key] {
				values[key][i] = strings.TrimSpace(v)
			}
		}
	}
}
