package chat

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"relaychat/internal/pkg/errs"
)

const (
	// MaxAttachmentSizeMB is the maximum allowed file size in megabytes.
	MaxAttachmentSizeMB = 5

	// MaxAttachmentSize is the maximum allowed file size in bytes.
	MaxAttachmentSize = MaxAttachmentSizeMB * 1024 * 1024

	// PresignedURLDuration is how long an upload or download URL stays valid.
	PresignedURLDuration = 5 * time.Minute

	// AttachmentKeyPrefix scopes every object key the relay hands out.
	AttachmentKeyPrefix = "attachments/"
)

// AllowedMIMETypes defines the set of permitted MIME types for file attachments.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ExtToMIME maps file extensions to their corresponding MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// Attachment is a reference to an uploaded object; the bytes never pass through the coordinator.
type Attachment struct {
	Key      string `json:"fileKey"`
	Name     string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"fileSize"`
}

// NewAttachmentKey returns a fresh object key for fileName under AttachmentKeyPrefix.
func NewAttachmentKey(fileName string) string {
	return AttachmentKeyPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
}

// ValidateFileSize checks if the provided file size is within acceptable limits.
func ValidateFileSize(fileSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrAttachmentInvalid)
	}

	if fileSize > MaxAttachmentSize {
		return errs.NewError(errs.ErrFileSizeTooLarge)
	}

	return nil
}

// ValidateFileType checks that the MIME type is allowed and agrees with the file extension.
func ValidateFileType(fileName string, mimeType string) *errs.CustomError {
	lowerMimeType := strings.ToLower(mimeType)

	if _, ok := AllowedMIMETypes[lowerMimeType]; !ok {
		return errs.NewError(errs.ErrAttachmentInvalid)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	expectedMIME, ok := ExtToMIME[ext]
	if !ok || expectedMIME != lowerMimeType {
		return errs.NewError(errs.ErrAttachmentInvalid)
	}

	return nil
}

// ValidateAttachment checks a client-supplied reference before it is attached to a message.
func ValidateAttachment(a *Attachment) *errs.CustomError {
	if a == nil {
		return nil
	}

	if !strings.HasPrefix(a.Key, AttachmentKeyPrefix) || len(a.Key) == len(AttachmentKeyPrefix) || strings.Contains(a.Key, "..") {
		return errs.NewError(errs.ErrAttachmentInvalid)
	}

	if err := ValidateFileSize(a.Size); err != nil {
		return err
	}

	return ValidateFileType(a.Name, a.MimeType)
}
