package upload

import (
	"path/filepath"
	"strings"
)

const (
	MaxFileSize = 10 * 1024 * 1024
	MinFileSize = 100

	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeText = "text/plain"
)

const (
	msgInvalidType = "Invalid file type. Please upload a PDF, DOCX, or TXT file."
	msgTooLarge    = "File too large. Maximum size is 10MB."
	msgTooSmall    = "File too small. Please upload a valid CV file."
)

var allowedTypes = map[string]bool{
	ContentTypePDF:  true,
	ContentTypeDOCX: true,
	ContentTypeText: true,
}

var extensionTypes = map[string]string{
	".pdf":  ContentTypePDF,
	".docx": ContentTypeDOCX,
	".txt":  ContentTypeText,
}

// ValidationError is a pre-flight rejection. No request was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ContentTypeFor guesses the declared type of a CV from its extension.
// Unknown extensions return an empty string, which fails validation.
func ContentTypeFor(filename string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(filename))]
}

// Validate checks the declared type first, then the size bounds (inclusive).
func Validate(contentType string, size int64) error {
	if !allowedTypes[contentType] {
		return &ValidationError{Message: msgInvalidType}
	}
	if size > MaxFileSize {
		return &ValidationError{Message: msgTooLarge}
	}
	if size < MinFileSize {
		return &ValidationError{Message: msgTooSmall}
	}
	return nil
}
