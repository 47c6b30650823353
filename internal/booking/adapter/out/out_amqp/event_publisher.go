package out_amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/mq"
)

// BookingEventPublisher pushes booking lifecycle events onto the broker.
type BookingEventPublisher struct {
	mq  *mq.RabbitMQ
	log *logger.Logger
}

func NewBookingEventPublisher(mqConn *mq.RabbitMQ, log *logger.Logger) *BookingEventPublisher {
	return &BookingEventPublisher{
		mq:  mqConn,
		log: log,
	}
}

func (p *BookingEventPublisher) PublishBookingEvent(ctx context.Context, eventType string, ev domain.BookingEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	routingKey := getRoutingKey(eventType)

	if err := p.mq.Publish(ctx, mq.BookingExchange, routingKey, payload); err != nil {
		p.log.Error(logger.Entry{
			Action:    "publish_booking_event_failed",
			Message:   err.Error(),
			BookingID: ev.BookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"event_type":  eventType,
				"routing_key": routingKey,
			},
		})
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}

	p.log.Debug(logger.Entry{
		Action:    "booking_event_published",
		Message:   eventType,
		BookingID: ev.BookingID,
		Additional: map[string]any{
			"routing_key": routingKey,
		},
	})

	return nil
}

func getRoutingKey(eventType string) string {
	switch eventType {
	case domain.EventBookingCreated:
		return mq.RKBookingCreated
	case domain.EventBookingConfirmed:
		return mq.RKBookingConfirmed
	case domain.EventBookingStarted:
		return mq.RKBookingStarted
	case domain.EventBookingCompleted:
		return mq.RKBookingCompleted
	case domain.EventBookingCancelled:
		return mq.RKBookingCancelled
	default:
		return "booking.event"
	}
}
