package in

import (
	"context"
	"time"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
)

// ApplyBookingActionInput carries a validated lifecycle action.
type ApplyBookingActionInput struct {
	BookingID string
	Action    domain.Action
}

type ApplyBookingActionUseCase interface {
	Execute(ctx context.Context, input ApplyBookingActionInput) (*domain.Booking, error)
}

// SetBookingStatusInput is the administrative direct status set.
type SetBookingStatusInput struct {
	BookingID string
	Status    domain.Status
}

type SetBookingStatusUseCase interface {
	Execute(ctx context.Context, input SetBookingStatusInput) (*domain.Booking, error)
}

// CancelBookingByCustomerInput cancels on behalf of the customer identified
// by phone (taken from the authenticated request, never the body).
type CancelBookingByCustomerInput struct {
	BookingID      string
	RequesterPhone string
}

type CancelBookingByCustomerUseCase interface {
	Execute(ctx context.Context, input CancelBookingByCustomerInput) (*domain.Booking, error)
}

// ReassignMechanicInput swaps the assigned mechanic. No status change, no
// notification.
type ReassignMechanicInput struct {
	BookingID  string
	MechanicID string
}

type ReassignMechanicUseCase interface {
	Execute(ctx context.Context, input ReassignMechanicInput) (*domain.Booking, error)
}

// CreateBookingInput is the customer's service request.
type CreateBookingInput struct {
	UserID      string
	MechanicID  string
	Vehicle     domain.Vehicle
	ServiceType string
	ScheduledAt time.Time
	Amount      float64
	Odometer    int64
	Notes       string
	SpareParts  []string
}

type CreateBookingUseCase interface {
	Execute(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
}

// BookingQueries are the thin read-side projections.
type BookingQueries interface {
	Get(ctx context.Context, bookingID string) (*domain.Booking, error)
	List(ctx context.Context, limit int) ([]*domain.Booking, error)
	Delete(ctx context.Context, bookingID string) error
}

// RegisterDeviceTokenInput stores a push token for any actor class.
type RegisterDeviceTokenInput struct {
	Class   model.ActorClass
	ActorID string
	Token   string
}

type RegisterDeviceTokenUseCase interface {
	Execute(ctx context.Context, input RegisterDeviceTokenInput) error
}
