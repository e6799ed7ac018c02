package port

import (
	"context"

	"apartment-listing-service/internal/core/domain"
)

// ListingEventsPort - порт публикации событий жизненного цикла объявлений.
type ListingEventsPort interface {
	// ApartmentCreated публикует событие о созданном объявлении.
	// Ошибка публикации не должна отменять саму операцию создания.
	ApartmentCreated(ctx context.Context, apartment *domain.Apartment) error
}
