package mq

import (
	"fmt"
)

// Exchange / queue / binding names used by the booking backend.
const (
	BookingExchange = "booking_topic"

	BookingEventsQueue = "booking_events"

	RKBookingCreated   = "booking.created"
	RKBookingConfirmed = "booking.confirmed"
	RKBookingStarted   = "booking.started"
	RKBookingCompleted = "booking.completed"
	RKBookingCancelled = "booking.cancelled"
)

// SetupTopology declares exchanges, queues and bindings.
func SetupTopology(mq *RabbitMQ) error {
	ch := mq.Channel()
	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	if err := ch.ExchangeDeclare(
		BookingExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // args
	); err != nil {
		return fmt.Errorf("declare %s: %w", BookingExchange, err)
	}

	q, err := ch.QueueDeclare(
		BookingEventsQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare %s: %w", BookingEventsQueue, err)
	}

	// booking.* covers created/confirmed/started/completed/cancelled
	if err := ch.QueueBind(q.Name, "booking.*", BookingExchange, false, nil); err != nil {
		return fmt.Errorf("bind %s: %w", BookingEventsQueue, err)
	}

	return nil
}
