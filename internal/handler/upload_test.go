package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanvir/feedboard/internal/auth"
	"github.com/tanvir/feedboard/internal/storage"
)

func newUploadHandler(t *testing.T) (*UploadHandler, *storage.ImageStore) {
	t.Helper()

	images, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewUploadHandler(images, logger), images
}

// multipartBody builds a multipart request body with one image part and
// optional extra form fields.
func multipartBody(t *testing.T, filename, contentType, content string, fields map[string]string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func authedUploadRequest(body io.Reader, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/post-image", body)
	req.Header.Set("Content-Type", contentType)
	id := auth.Identity{UserID: "u1", Email: "alice@example.com"}
	return req.WithContext(auth.ContextWithIdentity(req.Context(), id))
}

func TestHandleUpload_RequiresAuthentication(t *testing.T) {
	h, _ := newUploadHandler(t)

	body, ct := multipartBody(t, "cat.png", "image/png", "bytes", nil)
	req := httptest.NewRequest(http.MethodPut, "/post-image", body)
	req.Header.Set("Content-Type", ct)

	rr := httptest.NewRecorder()
	h.HandleUpload(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandleUpload_StoresFile(t *testing.T) {
	h, images := newUploadHandler(t)

	body, ct := multipartBody(t, "cat.png", "image/png", "png bytes", nil)
	rr := httptest.NewRecorder()
	h.HandleUpload(rr, authedUploadRequest(body, ct))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var res struct {
		Message  string `json:"message"`
		FilePath string `json:"filePath"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "file stored", res.Message)
	assert.Equal(t, "images/Image-cat.png", res.FilePath)

	data, err := os.ReadFile(filepath.Join(images.Dir(), "Image-cat.png"))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))
}

func TestHandleUpload_ReplacesOldImage(t *testing.T) {
	h, images := newUploadHandler(t)

	oldPath, err := images.Save("old.png", bytes.NewReader([]byte("stale")))
	require.NoError(t, err)

	body, ct := multipartBody(t, "new.png", "image/png", "fresh", map[string]string{"oldPath": oldPath})
	rr := httptest.NewRecorder()
	h.HandleUpload(rr, authedUploadRequest(body, ct))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	_, err = os.Stat(filepath.Join(images.Dir(), "Image-old.png"))
	assert.True(t, os.IsNotExist(err), "replaced image should be deleted")
}

func TestHandleUpload_NoFileIsNotAnError(t *testing.T) {
	h, _ := newUploadHandler(t)

	body, ct := multipartBody(t, "", "", "", map[string]string{"oldPath": ""})
	rr := httptest.NewRecorder()
	h.HandleUpload(rr, authedUploadRequest(body, ct))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "no file provided")
}

func TestHandleUpload_RejectsUnsupportedType(t *testing.T) {
	h, _ := newUploadHandler(t)

	body, ct := multipartBody(t, "script.sh", "application/x-sh", "#!/bin/sh", nil)
	rr := httptest.NewRecorder()
	h.HandleUpload(rr, authedUploadRequest(body, ct))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
