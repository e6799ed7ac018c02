package usecase

import (
	"context"
	"testing"

	"apartment-listing-service/internal/core/domain"
	"apartment-listing-service/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newApartmentRecord() domain.NewApartment {
	return domain.NewApartment{
		Name:          "Skyline Towers 12B",
		UnitNumber:    "12B",
		Project:       "Skyline Towers",
		Description:   "Corner unit with a balcony",
		Price:         1250.50,
		ContactNumber: "+375291234567",
		ImageURLs:     []string{"/files/a_kitchen.jpg"},
	}
}

func TestCreateApartment_PublishesEventAfterInsert(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	events := new(mocks.ListingEventsMock)
	uc := NewCreateApartmentUseCase(storage, events)

	record := newApartmentRecord()
	stored := &domain.Apartment{ID: uuid.New(), Name: record.Name}
	storage.On("Insert", mock.Anything, record).Return(stored, nil)
	events.On("ApartmentCreated", mock.Anything, stored).Return(nil)

	apartment, err := uc.Execute(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, stored, apartment)
	storage.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCreateApartment_PublishFailureDoesNotFailCreate(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	events := new(mocks.ListingEventsMock)
	uc := NewCreateApartmentUseCase(storage, events)

	record := newApartmentRecord()
	stored := &domain.Apartment{ID: uuid.New(), Name: record.Name}
	storage.On("Insert", mock.Anything, record).Return(stored, nil)
	events.On("ApartmentCreated", mock.Anything, stored).Return(assert.AnError)

	apartment, err := uc.Execute(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, stored, apartment)
	events.AssertExpectations(t)
}

func TestCreateApartment_InsertFailureSkipsEvent(t *testing.T) {
	storage := new(mocks.ApartmentStorageMock)
	events := new(mocks.ListingEventsMock)
	uc := NewCreateApartmentUseCase(storage, events)

	record := newApartmentRecord()
	storage.On("Insert", mock.Anything, record).Return(nil, assert.AnError)

	apartment, err := uc.Execute(context.Background(), record)

	require.Error(t, err)
	assert.Nil(t, apartment)
	events.AssertNotCalled(t, "ApartmentCreated", mock.Anything, mock.Anything)
}
