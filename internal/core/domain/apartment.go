package domain

import (
	"time"

	"github.com/google/uuid"
)

// Apartment - объявление о квартире. Создается один раз через endpoint
// создания, после этого не изменяется и не удаляется.
type Apartment struct {
	ID            uuid.UUID
	Name          string
	UnitNumber    string
	Project       string
	Description   string
	Price         float64
	ContactNumber string
	ImageURLs     []string
	CreatedAt     time.Time
}

// NewApartment - данные для создания объявления.
// ID и CreatedAt назначает хранилище при вставке.
type NewApartment struct {
	Name          string
	UnitNumber    string
	Project       string
	Description   string
	Price         float64
	ContactNumber string
	ImageURLs     []string
}

// SearchFilter - фильтр списка объявлений: подстрока без учета регистра
// по полям name, unitNumber и project (логическое ИЛИ).
// Пустой Text означает "без фильтра".
type SearchFilter struct {
	Text string
}

// IsEmpty сообщает, задан ли поисковый текст.
func (f SearchFilter) IsEmpty() bool {
	return f.Text == ""
}

// ApartmentListing - страница объявлений вместе с метаданными пагинации.
type ApartmentListing struct {
	Apartments []Apartment
	Pagination PaginationInfo
}
