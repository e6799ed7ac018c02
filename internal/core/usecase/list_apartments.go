package usecase

import (
	"context"
	"fmt"

	"apartment-listing-service/internal/contextkeys"
	"apartment-listing-service/internal/core/domain"
	"apartment-listing-service/internal/core/port"
)

// ListApartmentsUseCase отвечает за страницу списка объявлений:
// offset = (page-1)*limit, общий счетчик, сама страница и метаданные.
type ListApartmentsUseCase struct {
	storage port.ApartmentStoragePort
}

func NewListApartmentsUseCase(storage port.ApartmentStoragePort) *ListApartmentsUseCase {
	return &ListApartmentsUseCase{storage: storage}
}

// Execute выполняет запрос списка. Страница за пределами totalPages
// не ошибка: возвращается пустой список с честными метаданными.
func (uc *ListApartmentsUseCase) Execute(ctx context.Context, filter domain.SearchFilter, page, limit int) (*domain.ApartmentListing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ListApartments",
		"search":   filter.Text,
		"page":     page,
		"limit":    limit,
	})

	ucLogger.Info("Use case started", nil)

	totalCount, err := uc.storage.Count(ctx, filter)
	if err != nil {
		ucLogger.Error("Storage returned an error on count", err, nil)
		return nil, fmt.Errorf("failed to count apartments: %w", err)
	}

	// Нечего выбирать - не ходим в базу второй раз.
	if totalCount == 0 {
		return &domain.ApartmentListing{
			Apartments: []domain.Apartment{},
			Pagination: domain.NewPaginationInfo(0, page, limit),
		}, nil
	}

	offset := (page - 1) * limit
	apartments, err := uc.storage.List(ctx, filter, limit, offset)
	if err != nil {
		ucLogger.Error("Storage returned an error on list", err, nil)
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   totalCount,
		"items_on_page": len(apartments),
	})

	return &domain.ApartmentListing{
		Apartments: apartments,
		Pagination: domain.NewPaginationInfo(totalCount, page, limit),
	}, nil
}
