package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"apartment-listing-service/internal/adapters/localfiles"
	"apartment-listing-service/internal/core/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUploadRouter собирает роутер файлов поверх реального локального
// хранилища во временном каталоге.
func setupUploadRouter(t *testing.T) (chi.Router, *UploadHandler, string) {
	t.Helper()

	dir := t.TempDir()
	storage, err := localfiles.NewImageStorageAdapter(dir)
	require.NoError(t, err)

	handler := NewUploadHandler(
		usecase.NewSaveImageUseCase(storage),
		usecase.NewGetImageUseCase(storage),
		usecase.NewStatImageUseCase(storage),
		32,
	)

	r := chi.NewRouter()
	r.Post("/upload", handler.UploadImage)
	r.Get("/files/{filename}", handler.GetFile)
	r.Head("/files/{filename}", handler.StatFile)
	return r, handler, dir
}

func multipartImage(t *testing.T, fieldName, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func TestUploadImage_Created(t *testing.T) {
	router, _, _ := setupUploadRouter(t)

	body, contentType := multipartImage(t, "image", "Kitchen View.JPG", "jpeg-bytes")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response UploadImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, strings.HasPrefix(response.ImageURL, "/files/"), response.ImageURL)
	assert.True(t, strings.HasSuffix(response.ImageURL, "_kitchenview.jpg"), response.ImageURL)
}

func TestUploadImage_MissingFieldRejected(t *testing.T) {
	router, _, dir := setupUploadRouter(t)

	body, contentType := multipartImage(t, "attachment", "photo.jpg", "x")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadImage_NotMultipartRejected(t *testing.T) {
	router, _, _ := setupUploadRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"image":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFile_RoundTripWithContentType(t *testing.T) {
	router, _, _ := setupUploadRouter(t)

	body, contentType := multipartImage(t, "image", "kitchen.jpg", "jpeg-bytes")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var uploaded UploadImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, uploaded.ImageURL, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg-bytes", w.Body.String())
}

func TestGetFile_UnknownExtensionFallsBackToOctetStream(t *testing.T) {
	router, _, _ := setupUploadRouter(t)

	body, contentType := multipartImage(t, "image", "archive.zzz", "raw")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var uploaded UploadImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, uploaded.ImageURL, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
}

func TestGetFile_Missing(t *testing.T) {
	router, _, _ := setupUploadRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/missing.jpg", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetFile_TraversalRejected(t *testing.T) {
	_, handler, dir := setupUploadRouter(t)

	// Подставляем параметр маршрута напрямую, минуя разбор URL роутером.
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("filename", "../../etc/passwd")
	req := httptest.NewRequest(http.MethodGet, "/files/passwd", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	handler.GetFile(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid filename", body["error"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStatFile_HeadExistence(t *testing.T) {
	router, _, _ := setupUploadRouter(t)

	body, contentType := multipartImage(t, "image", "kitchen.jpg", "jpeg-bytes")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var uploaded UploadImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodHead, uploaded.ImageURL, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/files/missing.jpg", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}
