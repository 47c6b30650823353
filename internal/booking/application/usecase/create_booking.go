package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/in"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/out"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

// CreateBookingService creates a booking from a customer request. The
// customer's name, phone and email are snapshotted into the booking row so
// the record survives later account edits.
type CreateBookingService struct {
	bookingRepo  out.BookingRepository
	userRepo     out.UserRepository
	mechanicRepo out.MechanicRepository
	notifier     out.BookingNotifier
	events       out.EventPublisher
	log          *logger.Logger
}

func NewCreateBookingService(
	bookingRepo out.BookingRepository,
	userRepo out.UserRepository,
	mechanicRepo out.MechanicRepository,
	notifier out.BookingNotifier,
	events out.EventPublisher,
	log *logger.Logger,
) *CreateBookingService {
	return &CreateBookingService{
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		mechanicRepo: mechanicRepo,
		notifier:     notifier,
		events:       events,
		log:          log,
	}
}

func (s *CreateBookingService) Execute(ctx context.Context, input in.CreateBookingInput) (*domain.Booking, error) {
	if strings.TrimSpace(input.ServiceType) == "" {
		return nil, fmt.Errorf("%w: service type is required", domain.ErrInvalidBooking)
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	mechanic, err := s.mechanicRepo.FindByID(ctx, input.MechanicID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		ID: uuid.NewString(),
		Customer: domain.Customer{
			Name:  user.FullName,
			Phone: user.Phone,
			Email: user.Email,
		},
		Vehicle:     input.Vehicle,
		ServiceType: input.ServiceType,
		MechanicID:  &mechanic.ID,
		Odometer:    input.Odometer,
		ScheduledAt: input.ScheduledAt,
		Amount:      input.Amount,
		Status:      domain.StatusPending,
		Notes:       input.Notes,
		SpareParts:  input.SpareParts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.log.Error(logger.Entry{
			Action:  "booking_create_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:    "booking_created",
		Message:   booking.ServiceType,
		BookingID: booking.ID,
		Additional: map[string]any{
			"mechanic_id": mechanic.ID,
		},
	})

	if err := s.mechanicRepo.IncrementTotalBookings(ctx, mechanic.ID); err != nil {
		s.log.Warn(logger.Entry{
			Action:    "mechanic_counter_update_failed",
			Message:   err.Error(),
			BookingID: booking.ID,
		})
	}

	s.notifier.Dispatch(ctx,
		domain.Target{Class: model.ClassMechanic, ID: mechanic.ID},
		domain.NewBookingNotification(booking))

	ev := domain.BookingEvent{
		BookingID: booking.ID,
		EventType: domain.EventBookingCreated,
		EventData: map[string]any{
			"service_type": booking.ServiceType,
			"mechanic_id":  mechanic.ID,
			"scheduled_at": booking.ScheduledAt,
		},
		CreatedAt: now,
	}
	if err := s.events.PublishBookingEvent(ctx, domain.EventBookingCreated, ev); err != nil {
		s.log.Error(logger.Entry{
			Action:    "booking_event_publish_failed",
			Message:   err.Error(),
			BookingID: booking.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	return booking, nil
}
