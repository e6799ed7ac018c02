package port

import (
	"context"

	"apartment-listing-service/internal/core/domain"

	"github.com/google/uuid"
)

// ApartmentStoragePort - порт хранилища объявлений.
// Обновления и удаления в системе нет, поэтому контракт их не содержит.
type ApartmentStoragePort interface {
	// Count возвращает общее число записей, подходящих под фильтр.
	Count(ctx context.Context, filter domain.SearchFilter) (int, error)

	// List возвращает страницу записей, подходящих под фильтр,
	// отсортированных от новых к старым.
	List(ctx context.Context, filter domain.SearchFilter, limit, offset int) ([]domain.Apartment, error)

	// GetByID возвращает запись или ошибку, оборачивающую
	// domain.ErrApartmentNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Apartment, error)

	// Insert сохраняет новую запись и возвращает ее с назначенными
	// id и createdAt.
	Insert(ctx context.Context, record domain.NewApartment) (*domain.Apartment, error)
}
