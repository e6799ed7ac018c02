package usecases_port

import (
	"context"

	"apartment-listing-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetApartmentUseCase interface {
	Execute(ctx context.Context, id uuid.UUID) (*domain.Apartment, error)
}
