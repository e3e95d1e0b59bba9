// Package events publishes booking lifecycle notifications. Publishing is
// best-effort: a broker outage never fails the request that triggered it.
package events

import (
	"context"
	"time"

	"campusnest/pkg/kafka"
	"campusnest/pkg/logger"
	"campusnest/pkg/model"
)

const (
	EventBookingCreated    = "booking.created"
	EventBookingAccepted   = "booking.accepted"
	EventBookingRejected   = "booking.rejected"
	EventBookingCancelled  = "booking.cancelled"
	EventBookingTerminated = "booking.terminated"
	EventBookingPaid       = "booking.paid"

	eventSource = "campusnest-api"
)

// BookingEvent is the payload carried by every lifecycle message. Messages
// are keyed by booking id so per-booking ordering survives partitioning.
type BookingEvent struct {
	BookingID     string              `json:"booking_id"`
	StudentID     string              `json:"student_id"`
	OwnerID       string              `json:"owner_id"`
	ServiceType   model.ServiceType   `json:"service_type"`
	ServiceID     string              `json:"service_id"`
	Status        model.BookingStatus `json:"status"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	ReceiptNumber string              `json:"receipt_number,omitempty"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking)
	Close() error
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
		BookingID:     booking.ID,
		StudentID:     booking.StudentID,
		OwnerID:       booking.OwnerID,
		ServiceType:   booking.ServiceType,
		ServiceID:     booking.ServiceID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		ReceiptNumber: booking.ReceiptNumber,
		OccurredAt:    time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(eventSource).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	p.log.Debug("booking event published",
		"event_type", eventType,
		"booking_id", booking.ID,
	)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// nopPublisher backs deployments without a broker.
type nopPublisher struct{}

func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, *model.Booking) {}

func (nopPublisher) Close() error { return nil }
