package usecase

import (
	"context"
	"fmt"

	"apartment-listing-service/internal/contextkeys"
	"apartment-listing-service/internal/core/domain"
	"apartment-listing-service/internal/core/port"
)

// CreateApartmentUseCase сохраняет новое объявление и сообщает о нем
// подписчикам. Вход к этому моменту уже прошел валидацию на границе REST.
type CreateApartmentUseCase struct {
	storage port.ApartmentStoragePort
	events  port.ListingEventsPort
}

func NewCreateApartmentUseCase(storage port.ApartmentStoragePort, events port.ListingEventsPort) *CreateApartmentUseCase {
	return &CreateApartmentUseCase{
		storage: storage,
		events:  events,
	}
}

func (uc *CreateApartmentUseCase) Execute(ctx context.Context, record domain.NewApartment) (*domain.Apartment, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CreateApartment",
		"name":     record.Name,
		"project":  record.Project,
	})

	ucLogger.Info("Use case started", nil)

	apartment, err := uc.storage.Insert(ctx, record)
	if err != nil {
		ucLogger.Error("Storage returned an error during insert", err, nil)
		return nil, fmt.Errorf("failed to create apartment: %w", err)
	}

	// Публикация события не должна ломать уже состоявшееся создание:
	// ошибку логируем и возвращаем созданную запись.
	if err := uc.events.ApartmentCreated(ctx, apartment); err != nil {
		ucLogger.Error("Failed to publish created event after successful insert", err, nil)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"apartment_id": apartment.ID.String(),
	})
	return apartment, nil
}
