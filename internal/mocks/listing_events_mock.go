package mocks

import (
	"context"

	"apartment-listing-service/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// ListingEventsMock - testify/mock для port.ListingEventsPort.
type ListingEventsMock struct{ mock.Mock }

func (m *ListingEventsMock) ApartmentCreated(ctx context.Context, apartment *domain.Apartment) error {
	return m.Called(ctx, apartment).Error(0)
}
