package mocks

import (
	"context"

	"apartment-listing-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ApartmentStorageMock - testify/mock для port.ApartmentStoragePort.
// Позволяет тестировать use case'ы и обработчики без базы данных.
type ApartmentStorageMock struct{ mock.Mock }

func (m *ApartmentStorageMock) Count(ctx context.Context, filter domain.SearchFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *ApartmentStorageMock) List(ctx context.Context, filter domain.SearchFilter, limit, offset int) ([]domain.Apartment, error) {
	args := m.Called(ctx, filter, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]domain.Apartment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ApartmentStorageMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Apartment, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Apartment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ApartmentStorageMock) Insert(ctx context.Context, apartment domain.NewApartment) (*domain.Apartment, error) {
	args := m.Called(ctx, apartment)
	if v := args.Get(0); v != nil {
		return v.(*domain.Apartment), args.Error(1)
	}
	return nil, args.Error(1)
}
