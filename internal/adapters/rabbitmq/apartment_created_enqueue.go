package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"apartment-listing-service/internal/contextkeys"
	"apartment-listing-service/internal/core/domain"
	"apartment-listing-service/internal/core/port"
	"apartment-listing-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ApartmentCreatedDTO - тело события apartment.created.
type ApartmentCreatedDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	UnitNumber    string    `json:"unitNumber"`
	Project       string    `json:"project"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	ContactNumber string    `json:"contactNumber"`
	ImageURLs     []string  `json:"imageUrls"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListingEventsAdapter публикует события объявлений в RabbitMQ.
type ListingEventsAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

func NewListingEventsAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*ListingEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &ListingEventsAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// ApartmentCreated публикует событие о созданном объявлении.
func (a *ListingEventsAdapter) ApartmentCreated(ctx context.Context, apartment *domain.Apartment) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":    "ListingEventsAdapter",
		"routing_key":  a.routingKey,
		"apartment_id": apartment.ID.String(),
	})

	dto := ApartmentCreatedDTO{
		ID:            apartment.ID.String(),
		Name:          apartment.Name,
		UnitNumber:    apartment.UnitNumber,
		Project:       apartment.Project,
		Description:   apartment.Description,
		Price:         apartment.Price,
		ContactNumber: apartment.ContactNumber,
		ImageURLs:     apartment.ImageURLs,
		CreatedAt:     apartment.CreatedAt,
	}

	body, err := json.Marshal(dto)
	if err != nil {
		adapterLogger.Error("Failed to marshal event to JSON", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to marshal event for apartment %s: %w", apartment.ID, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	// Таймаут на публикацию, если контекст его не задает.
	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	adapterLogger.Debug("Publishing apartment created event", nil)
	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish apartment created event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish event for apartment %s: %w", apartment.ID, err)
	}

	adapterLogger.Info("Apartment created event published", nil)
	return nil
}

// NoopListingEvents - заглушка на случай, когда RabbitMQ выключен конфигурацией.
type NoopListingEvents struct{}

func (NoopListingEvents) ApartmentCreated(ctx context.Context, apartment *domain.Apartment) error {
	return nil
}
