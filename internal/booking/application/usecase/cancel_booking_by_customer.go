package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/in"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/out"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

// CancelBookingByCustomerService handles the customer-initiated cancel.
// Unlike the generic action path it verifies the requester owns the booking
// and notifies both sides: the customer gets the status update, the assigned
// mechanic gets a cancellation notice.
type CancelBookingByCustomerService struct {
	bookingRepo out.BookingRepository
	userRepo    out.UserRepository
	notifier    out.BookingNotifier
	events      out.EventPublisher
	log         *logger.Logger
}

func NewCancelBookingByCustomerService(
	bookingRepo out.BookingRepository,
	userRepo out.UserRepository,
	notifier out.BookingNotifier,
	events out.EventPublisher,
	log *logger.Logger,
) *CancelBookingByCustomerService {
	return &CancelBookingByCustomerService{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		events:      events,
		log:         log,
	}
}

func (s *CancelBookingByCustomerService) Execute(ctx context.Context, input in.CancelBookingByCustomerInput) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Customer.Phone != input.RequesterPhone {
		s.log.Warn(logger.Entry{
			Action:    "booking_cancel_forbidden",
			Message:   "requester does not own booking",
			BookingID: input.BookingID,
		})
		return nil, domain.ErrNotBookingOwner
	}

	if _, err := domain.Apply(booking.Status, domain.ActionCancel); err != nil {
		s.log.Warn(logger.Entry{
			Action:    "booking_cancel_rejected",
			Message:   err.Error(),
			BookingID: input.BookingID,
			Additional: map[string]any{
				"current_status": string(booking.Status),
			},
		})
		return nil, err
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, input.BookingID, domain.StatusCancelled)
	if err != nil {
		s.log.Error(logger.Entry{
			Action:    "booking_status_update_failed",
			Message:   err.Error(),
			BookingID: input.BookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:    "booking_cancelled_by_customer",
		Message:   "booking cancelled",
		BookingID: updated.ID,
	})

	if user, err := s.userRepo.FindByPhone(ctx, updated.Customer.Phone); err == nil {
		s.notifier.Dispatch(ctx, domain.Target{Class: model.ClassUser, ID: user.ID}, domain.StatusUpdateNotification(updated))
	}

	if updated.MechanicID != nil && *updated.MechanicID != "" {
		s.notifier.Dispatch(ctx,
			domain.Target{Class: model.ClassMechanic, ID: *updated.MechanicID},
			domain.CancelledByCustomerNotification(updated))
	}

	ev := domain.BookingEvent{
		BookingID: updated.ID,
		EventType: domain.EventBookingCancelled,
		EventData: map[string]any{"status": updated.Status, "cancelled_by": "customer"},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.events.PublishBookingEvent(ctx, domain.EventBookingCancelled, ev); err != nil {
		s.log.Error(logger.Entry{
			Action:    "booking_event_publish_failed",
			Message:   err.Error(),
			BookingID: updated.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	return updated, nil
}
