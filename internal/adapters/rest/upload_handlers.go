package rest

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"apartment-listing-service/internal/contextkeys"
	"apartment-listing-service/internal/core/domain"
	"apartment-listing-service/internal/core/port"
	"apartment-listing-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

type UploadHandler struct {
	saveImageUC    usecases_port.SaveImageUseCase
	getImageUC     usecases_port.GetImageUseCase
	statImageUC    usecases_port.StatImageUseCase
	maxUploadBytes int64
}

func NewUploadHandler(saveImageUC usecases_port.SaveImageUseCase,
	getImageUC usecases_port.GetImageUseCase,
	statImageUC usecases_port.StatImageUseCase,
	maxUploadSizeMB int) *UploadHandler {
	if maxUploadSizeMB < 1 {
		maxUploadSizeMB = 32
	}
	return &UploadHandler{
		saveImageUC:    saveImageUC,
		getImageUC:     getImageUC,
		statImageUC:    statImageUC,
		maxUploadBytes: int64(maxUploadSizeMB) << 20,
	}
}

// UploadImage обрабатывает POST /upload
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	handlerLogger := logger.WithFields(port.Fields{"handler": "UploadImage"})

	// --- Шаг 1: Разбираем multipart-форму с ограничением размера ---
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		handlerLogger.Warn("Failed to parse multipart form", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		handlerLogger.Warn("Multipart form has no image field", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Form field 'image' is required")
		return
	}
	defer file.Close()

	// --- Шаг 2: Сохраняем файл через use-case ---
	storedName, err := h.saveImageUC.Execute(r.Context(), header.Filename, file)
	if err != nil {
		handlerLogger.Error("Use case failed", err, port.Fields{"filename": header.Filename})
		WriteJSONError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	handlerLogger.Info("Image uploaded successfully", port.Fields{
		"filename":    header.Filename,
		"stored_name": storedName,
		"size_bytes":  header.Size,
	})

	RespondWithJSON(w, http.StatusCreated, UploadImageResponse{ImageURL: "/files/" + storedName})
}

// GetFile обрабатывает GET /files/{filename}
func (h *UploadHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	filename := chi.URLParam(r, "filename")

	handlerLogger := logger.WithFields(port.Fields{
		"handler":  "GetFile",
		"filename": filename,
	})

	reader, size, err := h.getImageUC.Execute(r.Context(), filename)
	if err != nil {
		h.writeFileError(w, handlerLogger, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentTypeByExtension(filename))
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		// Заголовки уже отправлены, статус менять поздно.
		handlerLogger.Error("Failed to stream file to client", err, nil)
	}
}

// StatFile обрабатывает HEAD /files/{filename}
func (h *UploadHandler) StatFile(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	filename := chi.URLParam(r, "filename")

	handlerLogger := logger.WithFields(port.Fields{
		"handler":  "StatFile",
		"filename": filename,
	})

	exists, err := h.statImageUC.Execute(r.Context(), filename)
	if err != nil {
		h.writeFileError(w, handlerLogger, err)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentTypeByExtension(filename))
	w.WriteHeader(http.StatusOK)
}

func (h *UploadHandler) writeFileError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidFilename):
		logger.Warn("Rejected unsafe filename", nil)
		WriteJSONError(w, http.StatusBadRequest, "Invalid filename")
	case errors.Is(err, domain.ErrImageNotFound):
		logger.Warn("File not found", nil)
		WriteJSONError(w, http.StatusNotFound, "File not found")
	default:
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve file")
	}
}

func contentTypeByExtension(filename string) string {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType
}
