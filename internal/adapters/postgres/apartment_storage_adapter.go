package postgres

import (
	"context"
	"fmt"

	"apartment-listing-service/internal/contextkeys"
	"apartment-listing-service/internal/core/domain"
	"apartment-listing-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ApartmentStorageAdapter реализует ApartmentStoragePort для PostgreSQL.
type ApartmentStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewApartmentStorageAdapter создает новый экземпляр адаптера.
func NewApartmentStorageAdapter(pool *pgxpool.Pool) (*ApartmentStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ApartmentStorageAdapter{
		pool: pool,
	}, nil
}

// EnsureSchema создает таблицу объявлений и индекс сортировки, если их нет.
func (a *ApartmentStorageAdapter) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS apartments (
			id             UUID PRIMARY KEY,
			name           TEXT NOT NULL,
			unit_number    TEXT NOT NULL,
			project        TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			price          DOUBLE PRECISION NOT NULL,
			contact_number TEXT NOT NULL,
			image_urls     TEXT[] NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_apartments_created_at
			ON apartments (created_at DESC, id ASC);`

	if _, err := a.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure apartments schema: %w", err)
	}
	return nil
}

// Count возвращает общее число объявлений, подходящих под фильтр.
func (a *ApartmentStorageAdapter) Count(ctx context.Context, filter domain.SearchFilter) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ApartmentStorageAdapter",
		"method":    "Count",
	})

	whereClause, args := applySearchFilter(filter)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM apartments %s", whereClause)

	var totalCount int64
	if err := a.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count apartments", err, port.Fields{"query": countQuery})
		return 0, fmt.Errorf("failed to count apartments: %w", err)
	}

	return int(totalCount), nil
}

// List возвращает страницу объявлений, от новых к старым.
// id ASC в сортировке дает детерминированный порядок записей
// с одинаковым created_at.
func (a *ApartmentStorageAdapter) List(ctx context.Context, filter domain.SearchFilter, limit, offset int) ([]domain.Apartment, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ApartmentStorageAdapter",
		"method":    "List",
		"limit":     limit,
		"offset":    offset,
	})

	whereClause, args := applySearchFilter(filter)
	dataQuery := fmt.Sprintf(`
		SELECT id, name, unit_number, project, description, price, contact_number, image_urls, created_at
		FROM apartments %s
		ORDER BY created_at DESC, id ASC
		LIMIT $%d OFFSET $%d`, whereClause, len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	rows, err := a.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		repoLogger.Error("Failed to list apartments", err, port.Fields{"query": dataQuery})
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}
	defer rows.Close()

	apartments := make([]domain.Apartment, 0, limit)
	for rows.Next() {
		var apt domain.Apartment
		if err := rows.Scan(
			&apt.ID, &apt.Name, &apt.UnitNumber, &apt.Project, &apt.Description,
			&apt.Price, &apt.ContactNumber, &apt.ImageURLs, &apt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan apartment: %w", err)
		}
		apartments = append(apartments, apt)
	}

	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during apartments rows iteration", err, nil)
		return nil, err
	}

	repoLogger.Debug("Listed apartments for page", port.Fields{"count": len(apartments)})
	return apartments, nil
}

// GetByID возвращает объявление по идентификатору.
func (a *ApartmentStorageAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Apartment, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":    "ApartmentStorageAdapter",
		"method":       "GetByID",
		"apartment_id": id.String(),
	})

	query := `
		SELECT id, name, unit_number, project, description, price, contact_number, image_urls, created_at
		FROM apartments
		WHERE id = $1`

	var apt domain.Apartment
	err := a.pool.QueryRow(ctx, query, id).Scan(
		&apt.ID, &apt.Name, &apt.UnitNumber, &apt.Project, &apt.Description,
		&apt.Price, &apt.ContactNumber, &apt.ImageURLs, &apt.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			repoLogger.Warn("Apartment not found", nil)
			return nil, fmt.Errorf("apartment with id %s: %w", id, domain.ErrApartmentNotFound)
		}
		repoLogger.Error("Failed to get apartment", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to get apartment: %w", err)
	}

	return &apt, nil
}

// Insert сохраняет новое объявление. Идентификатор назначается здесь,
// отметка времени - базой данных.
func (a *ApartmentStorageAdapter) Insert(ctx context.Context, record domain.NewApartment) (*domain.Apartment, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ApartmentStorageAdapter",
		"method":    "Insert",
	})

	apt := domain.Apartment{
		ID:            uuid.New(),
		Name:          record.Name,
		UnitNumber:    record.UnitNumber,
		Project:       record.Project,
		Description:   record.Description,
		Price:         record.Price,
		ContactNumber: record.ContactNumber,
		ImageURLs:     record.ImageURLs,
	}

	query := `
		INSERT INTO apartments (id, name, unit_number, project, description, price, contact_number, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := a.pool.QueryRow(ctx, query,
		apt.ID, apt.Name, apt.UnitNumber, apt.Project, apt.Description,
		apt.Price, apt.ContactNumber, apt.ImageURLs,
	).Scan(&apt.CreatedAt)
	if err != nil {
		repoLogger.Error("Failed to insert apartment", err, nil)
		return nil, fmt.Errorf("failed to insert apartment: %w", err)
	}

	repoLogger.Info("Apartment inserted", port.Fields{"apartment_id": apt.ID.String()})
	return &apt, nil
}
