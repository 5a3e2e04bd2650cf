package handler

import (
	"errors"
	"net/http"
	"strings"

	"relaychat/internal/app/chat"
	"relaychat/internal/app/storage"
	"relaychat/internal/pkg/auth/jwt"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/req"
	"relaychat/internal/pkg/resp"
)

// UploadFormField is the multipart field carrying the file for POST /api/file/upload.
const UploadFormField = "file"

// PresignUploadInput defines the JSON input structure for generating upload URL.
type PresignUploadInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// PresignUploadResponse pairs a presigned PUT URL with the attachment reference to send afterwards.
type PresignUploadResponse struct {
	PresignedURL string           `json:"presignedUrl"`
	Attachment   *chat.Attachment `json:"attachment"`
}

// fileAccessAllowed enforces storage availability and, when configured, a verified identity.
func fileAccessAllowed(w http.ResponseWriter, r *http.Request, deps *AppDeps) bool {
	if deps.StorageService == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrStorageDisabled))
		return false
	}

	if deps.Config.RequireIdentity && jwt.GetPayloadFromContext(r) == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return false
	}

	return true
}

// HandlePresignUploadURL creates an HTTP HandlerFunc to generate a time-limited,
// pre-signed URL for uploading one attachment.
func HandlePresignUploadURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !fileAccessAllowed(w, r, deps) {
			return
		}

		var input PresignUploadInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := chat.ValidateFileSize(input.FileSize); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		if err := chat.ValidateFileType(input.FileName, input.MimeType); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		attachment := &chat.Attachment{
			Key:      chat.NewAttachmentKey(input.FileName),
			Name:     input.FileName,
			MimeType: strings.ToLower(input.MimeType),
			Size:     input.FileSize,
		}

		url, err := deps.StorageService.PresignUpload(
			r.Context(),
			attachment.Key,
			attachment.MimeType,
			attachment.Size,
			chat.PresignedURLDuration,
		)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, PresignUploadResponse{PresignedURL: url, Attachment: attachment})
	}
}

// HandleUploadFile accepts a multipart upload and streams it to the attachment store.
// The response is the attachment reference to include in a message.
func HandleUploadFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !fileAccessAllowed(w, r, deps) {
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile(UploadFormField)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		defer file.Close()

		mimeType := strings.ToLower(header.Header.Get("Content-Type"))

		if customErr := chat.ValidateFileSize(header.Size); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := chat.ValidateFileType(header.Filename, mimeType); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		attachment := &chat.Attachment{
			Key:      chat.NewAttachmentKey(header.Filename),
			Name:     header.Filename,
			MimeType: mimeType,
			Size:     header.Size,
		}

		if err := deps.StorageService.Upload(r.Context(), attachment.Key, mimeType, file); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		logx.Info("Attachment uploaded", "key", attachment.Key, "size", attachment.Size)

		resp.RespondSuccess(w, r, attachment)
	}
}

// HandlePresignDownloadURL redirects to a time-limited, pre-signed download URL
// for an attachment key passed as ?k=.
func HandlePresignDownloadURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !fileAccessAllowed(w, r, deps) {
			return
		}

		fileKey := r.URL.Query().Get("k")
		if fileKey == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if !strings.HasPrefix(fileKey, chat.AttachmentKeyPrefix) || strings.Contains(fileKey, "..") {
			resp.RespondError(w, r, errs.NewError(errs.ErrAttachmentInvalid))
			return
		}

		if _, err := deps.StorageService.GetObjectMetadata(r.Context(), fileKey); err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrAttachmentNotFound))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		url, err := deps.StorageService.PresignDownload(r.Context(), fileKey, chat.PresignedURLDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		http.Redirect(w, r, url, http.StatusFound)
	}
}
