package constants

// Exchange для событий сервиса объявлений.
const (
	ListingExchange = "listing_exchange"
)

// Ключи маршрутизации
const (
	RoutingKeyApartmentCreated = "notify.apartment.created"
)
