package domain

import (
	"time"

	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
)

// Target identifies the actor a notification is addressed to.
type Target struct {
	Class model.ActorClass
	ID    string
}

// Notification is an ephemeral event handed to the dispatcher. It is shaped
// once; live delivery and push fallback both carry the same payload, so the
// two channels can never drift in content. It is never persisted.
type Notification struct {
	Kind      string         `json:"type"` // booking_update | booking_cancelled | new_booking
	BookingID string         `json:"bookingId"`
	Title     string         `json:"title"` // push notification title
	Message   string         `json:"message"`
	Payload   map[string]any `json:"updatedData,omitempty"`
}

// StatusUpdateNotification builds the customer-facing event for a status change.
func StatusUpdateNotification(b *Booking) Notification {
	return Notification{
		Kind:      model.KindBookingUpdate,
		BookingID: b.ID,
		Title:     "Booking Status Updated",
		Message:   "Your booking status has been updated to " + string(b.Status),
		Payload: map[string]any{
			"status":      b.Status,
			"serviceType": b.ServiceType,
			"vehicle":     b.Vehicle,
			"dateTime":    b.ScheduledAt,
			"amount":      b.Amount,
		},
	}
}

// CancelledByCustomerNotification builds the mechanic-facing event emitted
// when the customer cancels.
func CancelledByCustomerNotification(b *Booking) Notification {
	return Notification{
		Kind:      model.KindBookingCancelled,
		BookingID: b.ID,
		Title:     "Booking Cancelled",
		Message:   "Booking cancelled by " + b.Customer.Name,
		Payload: map[string]any{
			"customerName": b.Customer.Name,
			"serviceType":  b.ServiceType,
			"dateTime":     b.ScheduledAt,
		},
	}
}

// NewBookingNotification builds the mechanic-facing event for a fresh booking.
func NewBookingNotification(b *Booking) Notification {
	return Notification{
		Kind:      model.KindNewBooking,
		BookingID: b.ID,
		Title:     "New booking received",
		Message:   "You have a new booking",
		Payload: map[string]any{
			"customerName": b.Customer.Name,
			"serviceType":  b.ServiceType,
			"vehicle":      b.Vehicle,
			"dateTime":     b.ScheduledAt,
			"amount":       b.Amount,
			"status":       b.Status,
		},
	}
}

// ==== Broker event types ====
const (
	EventBookingCreated   = "BOOKING_CREATED"
	EventBookingConfirmed = "BOOKING_CONFIRMED"
	EventBookingStarted   = "BOOKING_STARTED"
	EventBookingCompleted = "BOOKING_COMPLETED"
	EventBookingCancelled = "BOOKING_CANCELLED"
)

// EventForStatus maps a post-transition status onto the broker event type.
func EventForStatus(s Status) string {
	switch s {
	case StatusConfirmed:
		return EventBookingConfirmed
	case StatusInProgress:
		return EventBookingStarted
	case StatusCompleted:
		return EventBookingCompleted
	case StatusCancelled:
		return EventBookingCancelled
	}
	return ""
}

// BookingEvent is the envelope published to the message broker on every
// lifecycle change.
type BookingEvent struct {
	BookingID string    `json:"booking_id"`
	EventType string    `json:"event_type"`
	EventData any       `json:"event_data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
