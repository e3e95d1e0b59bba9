package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"campusnest/internal/bookings/events"
	"campusnest/pkg/config"
	"campusnest/pkg/kafka"
	kafkaconfig "campusnest/pkg/kafka/config"
	"campusnest/pkg/logger"
)

const (
	ServiceName   = "campusnest-notifications"
	consumerGroup = "campusnest-notifications"
)

// The notifications worker tails the booking lifecycle topic and fans the
// events out to the affected parties. Delivery is log-only for now; the
// handler is the integration point for an actual mail or push provider.
func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	log := cfg.Log

	if !cfg.EventsEnabled {
		log.Fatal("Booking events are disabled; nothing to consume. Set " + config.EnvEventsEnabled)
	}

	consumer, err := kafka.NewConsumer(kafkaconfig.Load(), cfg.EventsTopic, consumerGroup, notifyHandler(log))
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	log.Info("Notifications worker started", "topic", cfg.EventsTopic, "group", consumerGroup)
	if err := consumer.Start(ctx); err != nil {
		log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}
	log.Info("Notifications worker stopped")
}

func notifyHandler(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event events.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			log.Warn("Dropping undecodable event", "event_id", msg.GetEventID(), "error", err)
			return nil
		}

		recipient := recipientFor(msg.GetEventType(), &event)
		log.Info("Notification dispatched",
			"event_type", msg.GetEventType(),
			"booking_id", event.BookingID,
			"recipient", recipient,
			"status", event.Status,
			"payment_status", event.PaymentStatus,
		)
		return nil
	}
}

// recipientFor picks who cares about an event: owners hear about new
// bookings and payments, students about decisions on their requests.
func recipientFor(eventType string, event *events.BookingEvent) string {
	switch eventType {
	case events.EventBookingCreated, events.EventBookingCancelled, events.EventBookingPaid:
		return event.OwnerID
	case events.EventBookingAccepted, events.EventBookingRejected, events.EventBookingTerminated:
		return event.StudentID
	default:
		return event.StudentID
	}
}
