package usecases_port

import (
	"context"

	"apartment-listing-service/internal/core/domain"
)

type ListApartmentsUseCase interface {
	Execute(ctx context.Context, filter domain.SearchFilter, page, limit int) (*domain.ApartmentListing, error)
}
