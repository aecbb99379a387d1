package handler

import (
	"log/slog"
	"net/http"

	"github.com/tanvir/feedboard/internal/auth"
	"github.com/tanvir/feedboard/internal/storage"
)

// maxUploadBytes caps a single image upload at 8 MiB.
const maxUploadBytes = 8 << 20

// acceptedImageTypes are the content types an upload may declare.
var acceptedImageTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/svg+xml": true,
}

// UploadHandler stores post images. The core never sees the file — only
// the relative path string this handler returns, which the client then
// passes to createPost/updatePost as imagePath.
type UploadHandler struct {
	images *storage.ImageStore
	logger *slog.Logger
}

func NewUploadHandler(images *storage.ImageStore, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{images: images, logger: logger}
}

// uploadResponse mirrors the historical shape clients expect from the
// image endpoint.
type uploadResponse struct {
	Message  string `json:"message"`
	FilePath string `json:"filePath,omitempty"`
}

// HandleUpload accepts a multipart image under the "image" field.
//
// HTTP: PUT /post-image
//
// An "oldPath" form value marks a previous image being replaced; its file
// is removed best-effort. Requires an authenticated caller — uploads are
// the one transport-level action with their own auth check, since they
// never pass through the operation dispatch.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if auth.IdentityFromContext(r.Context()).Anonymous() {
		writeJSON(w, http.StatusUnauthorized, ErrorEnvelope{
			Message: "not authenticated",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorEnvelope{
			Message: "could not parse multipart form",
			Code:    http.StatusBadRequest,
		})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		// No file attached is not an error for this endpoint.
		writeJSON(w, http.StatusOK, uploadResponse{Message: "no file provided"})
		return
	}
	defer file.Close()

	if !acceptedImageTypes[header.Header.Get("Content-Type")] {
		writeJSON(w, http.StatusBadRequest, ErrorEnvelope{
			Message: "unsupported image type",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if oldPath := r.FormValue("oldPath"); oldPath != "" {
		if err := h.images.Remove(oldPath); err != nil {
			h.logger.Warn("failed to remove replaced image",
				slog.String("path", oldPath),
				slog.String("error", err.Error()),
			)
		}
	}

	path, err := h.images.Save(header.Filename, file)
	if err != nil {
		h.logger.Error("failed to store upload", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorEnvelope{
			Message: "could not store file",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		Message:  "file stored",
		FilePath: path,
	})
}
