// Package attachment validates uploaded complaint files and writes them to
// the configured disk.
package attachment

import (
	"complaintdesk/backend/internal/config"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Extension returns the lowercased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Path returns the storage path for a new file of the given extension:
// attachments/{userID}/{complaintID}/{uuid}.{ext}.
func Path(userID, complaintID uint, ext string) string {
	return path.Join(
		config.AttachmentPathRoot,
		fmt.Sprint(userID),
		fmt.Sprint(complaintID),
		uuid.NewString()+"."+ext,
	)
}

func allowedList() string {
	exts := make([]string, 0, len(config.AttachmentMimeTypes))
	for ext := range config.AttachmentMimeTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

// Validate checks the file count, and each file's size, extension and
// sniffed content type. It returns field messages keyed "attachments" or
// "attachments.N", or nil when every file is acceptable.
func Validate(files []*multipart.FileHeader) map[string][]string {
	if len(files) > config.MaxAttachments {
		return map[string][]string{
			"attachments": {fmt.Sprintf("The attachments may not have more than %d items.", config.MaxAttachments)},
		}
	}

	errs := make(map[string][]string)
	for i, fh := range files {
		field := fmt.Sprintf("attachments.%d", i)
		if msg := validateFile(fh, field); msg != "" {
			errs[field] = append(errs[field], msg)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateFile(fh *multipart.FileHeader, field string) string {
	if fh.Size > config.MaxAttachmentBytes {
		return fmt.Sprintf("The %s must not be greater than %d kilobytes.", field, config.MaxAttachmentBytes/1024)
	}

	allowed, ok := config.AttachmentMimeTypes[Extension(fh.Filename)]
	if !ok {
		return fmt.Sprintf("The %s must be a file of type: %s.", field, allowedList())
	}

	detected, err := DetectContentType(fh)
	if err != nil {
		return fmt.Sprintf("The %s failed to upload.", field)
	}
	for _, want := range allowed {
		if detected.Is(want) {
			return ""
		}
	}
	return fmt.Sprintf("The %s must be a file of type: %s.", field, allowedList())
}

// DetectContentType sniffs the content type from the file's leading bytes.
func DetectContentType(fh *multipart.FileHeader) (*mimetype.MIME, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return mimetype.DetectReader(f)
}
