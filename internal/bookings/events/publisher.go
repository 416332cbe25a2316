// Package events emits booking lifecycle events to Kafka. Publishing is
// best-effort: a broker outage never fails the mutating operation.
package events

import (
	"context"
	"time"

	"fleetbook/pkg/kafka"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingApproved  = "booking.approved"
	TypeBookingDenied    = "booking.denied"
	TypeBookingCollected = "booking.collected"
	TypeBookingReturned  = "booking.returned"

	source = "fleetbook"
)

// BookingEvent is the payload shared by all lifecycle event types.
type BookingEvent struct {
	BookingID  string       `json:"booking_id"`
	VehicleID  string       `json:"vehicle_id"`
	Username   string       `json:"username"`
	Status     model.Status `json:"status"`
	Collected  bool         `json:"collected"`
	Returned   bool         `json:"returned"`
	StartTime  time.Time    `json:"start_time"`
	EndTime    time.Time    `json:"end_time"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) {
	event := BookingEvent{
		BookingID:  booking.ID,
		VehicleID:  booking.VehicleID,
		Username:   booking.Username,
		Status:     booking.Status,
		Collected:  booking.Collected,
		Returned:   booking.Returned,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		OccurredAt: time.Now().UTC(),
	}

	msg, err := kafka.NewMessage(booking.ID, eventType, source, event)
	if err != nil {
		p.log.Warn("Failed to encode booking event", "event_type", eventType, "booking_id", booking.ID, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish booking event", "event_type", eventType, "booking_id", booking.ID, "error", err)
	}
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops all events, used when no
// Kafka brokers are configured.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, *model.Booking) {}
