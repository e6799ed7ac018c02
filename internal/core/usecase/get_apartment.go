package usecase

import (
	"context"
	"fmt"

	"apartment-listing-service/internal/contextkeys"
	"apartment-listing-service/internal/core/domain"
	"apartment-listing-service/internal/core/port"

	"github.com/google/uuid"
)

// GetApartmentUseCase возвращает одно объявление по идентификатору.
type GetApartmentUseCase struct {
	storage port.ApartmentStoragePort
}

func NewGetApartmentUseCase(storage port.ApartmentStoragePort) *GetApartmentUseCase {
	return &GetApartmentUseCase{storage: storage}
}

func (uc *GetApartmentUseCase) Execute(ctx context.Context, id uuid.UUID) (*domain.Apartment, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "GetApartment",
		"apartment_id": id.String(),
	})

	ucLogger.Info("Use case started", nil)

	apartment, err := uc.storage.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, fmt.Errorf("failed to get apartment %s: %w", id, err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return apartment, nil
}
