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

// ApplyBookingActionService validates a lifecycle action against the
// transition table, persists the resulting status, and dispatches the
// customer notification. The persistence write happens first: if it fails,
// nothing is dispatched.
type ApplyBookingActionService struct {
	bookingRepo out.BookingRepository
	userRepo    out.UserRepository
	notifier    out.BookingNotifier
	events      out.EventPublisher
	log         *logger.Logger
}

func NewApplyBookingActionService(
	bookingRepo out.BookingRepository,
	userRepo out.UserRepository,
	notifier out.BookingNotifier,
	events out.EventPublisher,
	log *logger.Logger,
) *ApplyBookingActionService {
	return &ApplyBookingActionService{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		events:      events,
		log:         log,
	}
}

func (s *ApplyBookingActionService) Execute(ctx context.Context, input in.ApplyBookingActionInput) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	next, err := domain.Apply(booking.Status, input.Action)
	if err != nil {
		s.log.Warn(logger.Entry{
			Action:    "booking_action_rejected",
			Message:   err.Error(),
			BookingID: input.BookingID,
			Additional: map[string]any{
				"action":         string(input.Action),
				"current_status": string(booking.Status),
			},
		})
		return nil, err
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, input.BookingID, next)
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
		Action:    "booking_action_applied",
		Message:   domain.ActionMessage(input.Action),
		BookingID: updated.ID,
		Additional: map[string]any{
			"action": string(input.Action),
			"status": string(updated.Status),
		},
	})

	s.notifyCustomer(ctx, updated)
	s.publishEvent(ctx, updated)

	return updated, nil
}

// notifyCustomer resolves the account behind the customer snapshot and
// dispatches the status update. A customer without an account (or with no
// live connection and no token) simply receives nothing.
func (s *ApplyBookingActionService) notifyCustomer(ctx context.Context, b *domain.Booking) {
	user, err := s.userRepo.FindByPhone(ctx, b.Customer.Phone)
	if err != nil {
		s.log.Debug(logger.Entry{
			Action:    "customer_account_not_resolved",
			Message:   b.Customer.Phone,
			BookingID: b.ID,
		})
		return
	}

	s.notifier.Dispatch(ctx, domain.Target{Class: model.ClassUser, ID: user.ID}, domain.StatusUpdateNotification(b))
}

func (s *ApplyBookingActionService) publishEvent(ctx context.Context, b *domain.Booking) {
	eventType := domain.EventForStatus(b.Status)
	if eventType == "" {
		return
	}
	ev := domain.BookingEvent{
		BookingID: b.ID,
		EventType: eventType,
		EventData: map[string]any{"status": b.Status},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.events.PublishBookingEvent(ctx, eventType, ev); err != nil {
		// event stream is best-effort; the booking mutation already succeeded
		s.log.Error(logger.Entry{
			Action:    "booking_event_publish_failed",
			Message:   err.Error(),
			BookingID: b.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}
}
