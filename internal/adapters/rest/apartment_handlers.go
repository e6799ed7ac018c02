package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"apartment-listing-service/internal/contextkeys"
	"apartment-listing-service/internal/contracts"
	"apartment-listing-service/internal/core/domain"
	"apartment-listing-service/internal/core/port"
	"apartment-listing-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ApartmentHandler struct {
	listApartmentsUC  usecases_port.ListApartmentsUseCase
	getApartmentUC    usecases_port.GetApartmentUseCase
	createApartmentUC usecases_port.CreateApartmentUseCase
}

func NewApartmentHandler(listApartmentsUC usecases_port.ListApartmentsUseCase,
	getApartmentUC usecases_port.GetApartmentUseCase,
	createApartmentUC usecases_port.CreateApartmentUseCase) *ApartmentHandler {
	return &ApartmentHandler{
		listApartmentsUC:  listApartmentsUC,
		getApartmentUC:    getApartmentUC,
		createApartmentUC: createApartmentUC,
	}
}

// ListApartments обрабатывает GET /apartments
func (h *ApartmentHandler) ListApartments(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	// --- Шаг 1: Парсим пагинацию и поиск ---
	page := GetPageOrDefault(r)
	limit := GetLimitOrDefault(r)
	filter := domain.SearchFilter{Text: r.URL.Query().Get("search")}

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "ListApartments",
		"page":    page,
		"limit":   limit,
		"search":  filter.Text,
	})
	handlerLogger.Debug("Processing request to list apartments", nil)

	// --- Шаг 2: Вызываем use-case ---
	listing, err := h.listApartmentsUC.Execute(r.Context(), filter, page, limit)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve apartments")
		return
	}

	handlerLogger.Info("Successfully listed apartments", port.Fields{
		"total_found":   listing.Pagination.TotalCount,
		"items_on_page": len(listing.Apartments),
	})

	// --- Шаг 3: Маппим результат в DTO для ответа ---
	response := PaginatedApartmentsResponse{
		Apartments: make([]ApartmentResponse, len(listing.Apartments)),
		Pagination: toPaginationResponse(listing.Pagination),
	}
	for i := range listing.Apartments {
		response.Apartments[i] = toApartmentResponse(&listing.Apartments[i])
	}

	RespondWithJSON(w, http.StatusOK, response)
}

// GetApartmentDetails обрабатывает GET /apartments/{apartmentID}
func (h *ApartmentHandler) GetApartmentDetails(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	// Некорректный идентификатор означает, что такого объявления нет.
	apartmentIDStr := chi.URLParam(r, "apartmentID")
	apartmentID, err := uuid.Parse(apartmentIDStr)
	if err != nil {
		logger.Warn("Invalid apartment ID format", port.Fields{"apartment_id": apartmentIDStr})
		WriteJSONError(w, http.StatusNotFound, "Apartment not found")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":      "GetApartmentDetails",
		"apartment_id": apartmentIDStr,
	})
	handlerLogger.Debug("Processing request to get apartment details", nil)

	apartment, err := h.getApartmentUC.Execute(r.Context(), apartmentID)
	if err != nil {
		if errors.Is(err, domain.ErrApartmentNotFound) {
			handlerLogger.Warn("Apartment not found", nil)
			WriteJSONError(w, http.StatusNotFound, "Apartment not found")
			return
		}
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve apartment")
		return
	}

	RespondWithJSON(w, http.StatusOK, toApartmentResponse(apartment))
}

// CreateApartment обрабатывает POST /apartments
func (h *ApartmentHandler) CreateApartment(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	handlerLogger := logger.WithFields(port.Fields{"handler": "CreateApartment"})

	// --- Шаг 1: Читаем и валидируем тело по контракту ---
	body, err := io.ReadAll(r.Body)
	if err != nil {
		handlerLogger.Warn("Failed to read request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusInternalServerError, "Failed to read request body")
		return
	}

	if err := contracts.ValidateApartmentCreate(body); err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			handlerLogger.Warn("Create apartment request failed validation", port.Fields{
				"validation_errors": validationErr.Fields,
			})
			RespondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Message: validationErr.Message,
				Errors:  validationErr.Fields,
			})
			return
		}
		handlerLogger.Error("Contract validation failed unexpectedly", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to validate request")
		return
	}

	// --- Шаг 2: Декодируем уже проверенное тело ---
	var req CreateApartmentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		handlerLogger.Warn("Failed to decode create apartment request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	newApartment := domain.NewApartment{
		Name:          req.Name,
		UnitNumber:    req.UnitNumber,
		Project:       req.Project,
		Description:   req.Description,
		Price:         req.Price,
		ContactNumber: req.ContactNumber,
		ImageURLs:     req.ImageURLs,
	}

	// --- Шаг 3: Вызываем use-case ---
	apartment, err := h.createApartmentUC.Execute(r.Context(), newApartment)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to create apartment")
		return
	}

	handlerLogger.Info("Apartment created successfully", port.Fields{"apartment_id": apartment.ID})

	RespondWithJSON(w, http.StatusCreated, toApartmentResponse(apartment))
}
