package rest

import (
	"time"

	"apartment-listing-service/internal/core/domain"
)

// ApartmentResponse - DTO для одного объявления в ответе API.
type ApartmentResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	UnitNumber    string    `json:"unitNumber"`
	Project       string    `json:"project"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	ContactNumber string    `json:"contactNumber"`
	ImageURLs     []string  `json:"imageUrls"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PaginationResponse - DTO для метаданных пагинации.
type PaginationResponse struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	Limit       int  `json:"limit"`
}

// PaginatedApartmentsResponse - DTO для ответа со списком и пагинацией.
type PaginatedApartmentsResponse struct {
	Apartments []ApartmentResponse `json:"apartments"`
	Pagination PaginationResponse  `json:"pagination"`
}

// CreateApartmentRequest - DTO тела запроса на создание объявления.
type CreateApartmentRequest struct {
	Name          string   `json:"name"`
	UnitNumber    string   `json:"unitNumber"`
	Project       string   `json:"project"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	ContactNumber string   `json:"contactNumber"`
	ImageURLs     []string `json:"imageUrls"`
}

// ValidationErrorResponse - DTO ответа 400 с ошибками по полям.
type ValidationErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// UploadImageResponse - DTO ответа на загрузку изображения.
type UploadImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

func toApartmentResponse(apt *domain.Apartment) ApartmentResponse {
	return ApartmentResponse{
		ID:            apt.ID.String(),
		Name:          apt.Name,
		UnitNumber:    apt.UnitNumber,
		Project:       apt.Project,
		Description:   apt.Description,
		Price:         apt.Price,
		ContactNumber: apt.ContactNumber,
		ImageURLs:     apt.ImageURLs,
		CreatedAt:     apt.CreatedAt,
	}
}

func toPaginationResponse(p domain.PaginationInfo) PaginationResponse {
	return PaginationResponse{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalCount:  p.TotalCount,
		HasNextPage: p.HasNextPage,
		HasPrevPage: p.HasPrevPage,
		Limit:       p.Limit,
	}
}
