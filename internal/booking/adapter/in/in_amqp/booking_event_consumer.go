package in_amqp

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/out"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/mq"
)

// BookingEventConsumer drains the booking_events queue and re-broadcasts
// new bookings to every online admin, so admin dashboards see activity
// without polling.
type BookingEventConsumer struct {
	mqConn   *mq.RabbitMQ
	notifier out.BookingNotifier
	log      *logger.Logger
}

func NewBookingEventConsumer(mqConn *mq.RabbitMQ, notifier out.BookingNotifier, log *logger.Logger) *BookingEventConsumer {
	return &BookingEventConsumer{
		mqConn:   mqConn,
		notifier: notifier,
		log:      log,
	}
}

// Start begins consuming. Topology (exchange, queue, binding) must already
// be declared.
func (c *BookingEventConsumer) Start(ctx context.Context) error {
	return c.mqConn.Consume(ctx, mq.BookingEventsQueue, "booking-event-consumer", func(d amqp.Delivery) {
		c.handleDelivery(ctx, d)
	})
}

func (c *BookingEventConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var ev domain.BookingEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		c.log.Error(logger.Entry{
			Action:  "booking_event_decode_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"routing_key": d.RoutingKey,
			},
		})
		_ = d.Nack(false, false)
		return
	}

	if ev.EventType == domain.EventBookingCreated {
		c.notifier.Broadcast(ctx, model.ClassAdmin, domain.Notification{
			Kind:      model.KindNewBooking,
			BookingID: ev.BookingID,
			Title:     "New booking received",
			Message:   "A new booking has been created",
			Payload:   map[string]any{"event": ev},
		})
	}

	c.log.Debug(logger.Entry{
		Action:    "booking_event_consumed",
		Message:   ev.EventType,
		BookingID: ev.BookingID,
		Additional: map[string]any{
			"routing_key": d.RoutingKey,
		},
	})

	_ = d.Ack(false)
}
