package usecases_port

import (
	"context"

	"apartment-listing-service/internal/core/domain"
)

type CreateApartmentUseCase interface {
	Execute(ctx context.Context, record domain.NewApartment) (*domain.Apartment, error)
}
