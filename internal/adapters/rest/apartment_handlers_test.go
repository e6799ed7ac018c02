package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"apartment-listing-service/internal/core/domain"
	"apartment-listing-service/internal/core/usecase"
	"apartment-listing-service/internal/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// setupApartmentRouter собирает роутер с реальными use case'ами поверх
// мока хранилища: проверяется весь путь от query-параметров до SQL-порта.
func setupApartmentRouter(storage *mocks.ApartmentStorageMock, events *mocks.ListingEventsMock) chi.Router {
	handler := NewApartmentHandler(
		usecase.NewListApartmentsUseCase(storage),
		usecase.NewGetApartmentUseCase(storage),
		usecase.NewCreateApartmentUseCase(storage, events),
	)

	r := chi.NewRouter()
	r.Get("/apartments", handler.ListApartments)
	r.Post("/apartments", handler.CreateApartment)
	r.Get("/apartments/{apartmentID}", handler.GetApartmentDetails)
	return r
}

func sampleApartment(name string) domain.Apartment {
	return domain.Apartment{
		ID:            uuid.New(),
		Name:          name,
		UnitNumber:    "12B",
		Project:       "Skyline Towers",
		Description:   "Bright corner unit",
		Price:         1250.50,
		ContactNumber: "+375291234567",
		ImageURLs:     []string{"/files/a.jpg"},
		CreatedAt:     time.Now().UTC(),
	}
}

func TestListApartments_ThirdPageOffset(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	router := setupApartmentRouter(storage, new(mocks.ListingEventsMock))

	// 17 записей при limit=8: 3 страницы, третья начинается с offset 16.
	storage.On("Count", mock.Anything, domain.SearchFilter{}).Return(17, nil)
	storage.On("List", mock.Anything, domain.SearchFilter{}, 8, 16).
		Return([]domain.Apartment{sampleApartment("last one")}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/apartments?page=3&limit=8", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response PaginatedApartmentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Apartments, 1)
	assert.Equal(t, "last one", response.Apartments[0].Name)
	assert.Equal(t, 3, response.Pagination.CurrentPage)
	assert.Equal(t, 3, response.Pagination.TotalPages)
	assert.Equal(t, 17, response.Pagination.TotalCount)
	assert.False(t, response.Pagination.HasNextPage)
	assert.True(t, response.Pagination.HasPrevPage)
	assert.Equal(t, 8, response.Pagination.Limit)

	storage.AssertExpectations(t)
}

func TestListApartments_PageBeyondTotalReturnsEmptyListWithTrueTotals(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	router := setupApartmentRouter(storage, new(mocks.ListingEventsMock))

	storage.On("Count", mock.Anything, domain.SearchFilter{}).Return(17, nil)
	storage.On("List", mock.Anything, domain.SearchFilter{}, 8, 32).
		Return([]domain.Apartment{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/apartments?page=5&limit=8", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response PaginatedApartmentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Empty(t, response.Apartments)
	assert.Equal(t, 5, response.Pagination.CurrentPage)
	assert.Equal(t, 3, response.Pagination.TotalPages)
	assert.Equal(t, 17, response.Pagination.TotalCount)
}

func TestListApartments_GarbageParamsCoerced(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	router := setupApartmentRouter(storage, new(mocks.ListingEventsMock))

	storage.On("Count", mock.Anything, domain.SearchFilter{}).Return(0, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/apartments?page=banana&limit=9999", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response PaginatedApartmentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Pagination.CurrentPage)
	assert.Equal(t, 10, response.Pagination.Limit)

	// Пустая коллекция: чтение страницы не выполняется вовсе.
	storage.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListApartments_SearchReachesStore(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	router := setupApartmentRouter(storage, new(mocks.ListingEventsMock))

	filter := domain.SearchFilter{Text: "sky"}
	storage.On("Count", mock.Anything, filter).Return(1, nil)
	storage.On("List", mock.Anything, filter, 10, 0).
		Return([]domain.Apartment{sampleApartment("Skyline Towers unit")}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/apartments?search=sky", nil))

	require.Equal(t, http.StatusOK, w.Code)
	storage.AssertExpectations(t)
}

func TestListApartments_StoreFailure(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	router := setupApartmentRouter(storage, new(mocks.ListingEventsMock))

	storage.On("Count", mock.Anything, domain.SearchFilter{}).Return(0, assert.AnError)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/apartments", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to retrieve apartments", body["error"])
}

func TestGetApartmentDetails_Found(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	router := setupApartmentRouter(storage, new(mocks.ListingEventsMock))

	apartment := sampleApartment("Loft")
	storage.On("GetByID", mock.Anything, apartment.ID).Return(&apartment, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/apartments/"+apartment.ID.String(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unitNumber":"12B"`)
	assert.Contains(t, w.Body.String(), apartment.ID.String())
}

func TestGetApartmentDetails_NotFound(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	router := setupApartmentRouter(storage, new(mocks.ListingEventsMock))

	missingID := uuid.New()
	storage.On("GetByID", mock.Anything, missingID).
		Return(nil, fmt.Errorf("apartment %s: %w", missingID, domain.ErrApartmentNotFound))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/apartments/"+missingID.String(), nil))

	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Apartment not found", body["error"])
}

func TestGetApartmentDetails_MalformedIDIsNotFound(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	router := setupApartmentRouter(storage, new(mocks.ListingEventsMock))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/apartments/not-a-uuid", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	storage.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetApartmentDetails_StoreFailure(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	router := setupApartmentRouter(storage, new(mocks.ListingEventsMock))

	id := uuid.New()
	storage.On("GetByID", mock.Anything, id).Return(nil, assert.AnError)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/apartments/"+id.String(), nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func validCreateRequest() map[string]interface{} {
	return map[string]interface{}{
		"name":          "Cozy loft",
		"unitNumber":    "12B",
		"project":       "Skyline Towers",
		"description":   "Bright corner unit",
		"price":         1250.50,
		"contactNumber": "+375291234567",
		"imageUrls":     []string{"/files/a.jpg", "/files/b.jpg"},
	}
}

func postCreate(t *testing.T, router chi.Router, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/apartments", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateApartment_Created(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	events := new(mocks.ListingEventsMock)
	router := setupApartmentRouter(storage, events)

	stored := sampleApartment("Cozy loft")
	stored.ImageURLs = []string{"/files/a.jpg", "/files/b.jpg"}

	storage.On("Insert", mock.Anything, domain.NewApartment{
		Name:          "Cozy loft",
		UnitNumber:    "12B",
		Project:       "Skyline Towers",
		Description:   "Bright corner unit",
		Price:         1250.50,
		ContactNumber: "+375291234567",
		ImageURLs:     []string{"/files/a.jpg", "/files/b.jpg"},
	}).Return(&stored, nil)
	events.On("ApartmentCreated", mock.Anything, &stored).Return(nil)

	w := postCreate(t, router, validCreateRequest())

	require.Equal(t, http.StatusCreated, w.Code)

	var response ApartmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, stored.ID.String(), response.ID)
	assert.Equal(t, "Cozy loft", response.Name)

	storage.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCreateApartment_NegativePriceRejectedWithoutInsert(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	router := setupApartmentRouter(storage, new(mocks.ListingEventsMock))

	body := validCreateRequest()
	body["price"] = -5

	w := postCreate(t, router, body)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var response ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "validation failed", response.Message)
	assert.Contains(t, response.Errors, "price")

	storage.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateApartment_MissingFieldsRejected(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	router := setupApartmentRouter(storage, new(mocks.ListingEventsMock))

	body := validCreateRequest()
	delete(body, "imageUrls")

	w := postCreate(t, router, body)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var response ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Errors, "imageUrls")

	storage.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateApartment_StoreFailure(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	events := new(mocks.ListingEventsMock)
	router := setupApartmentRouter(storage, events)

	storage.On("Insert", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	w := postCreate(t, router, validCreateRequest())

	require.Equal(t, http.StatusInternalServerError, w.Code)
	events.AssertNotCalled(t, "ApartmentCreated", mock.Anything, mock.Anything)
}
