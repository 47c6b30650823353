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

// SetBookingStatusService is the administrative direct status set. It
// bypasses the action table but still rejects unknown status values, and a
// terminal booking stays terminal even for admins.
type SetBookingStatusService struct {
	bookingRepo out.BookingRepository
	userRepo    out.UserRepository
	notifier    out.BookingNotifier
	events      out.EventPublisher
	log         *logger.Logger
}

func NewSetBookingStatusService(
	bookingRepo out.BookingRepository,
	userRepo out.UserRepository,
	notifier out.BookingNotifier,
	events out.EventPublisher,
	log *logger.Logger,
) *SetBookingStatusService {
	return &SetBookingStatusService{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		events:      events,
		log:         log,
	}
}

func (s *SetBookingStatusService) Execute(ctx context.Context, input in.SetBookingStatusInput) (*domain.Booking, error) {
	if _, err := domain.ParseStatus(string(input.Status)); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == domain.StatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if booking.Status == domain.StatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, input.BookingID, input.Status)
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
		Action:    "booking_status_set",
		Message:   fmt.Sprintf("status set to %s", updated.Status),
		BookingID: updated.ID,
	})

	if user, err := s.userRepo.FindByPhone(ctx, updated.Customer.Phone); err == nil {
		s.notifier.Dispatch(ctx, domain.Target{Class: model.ClassUser, ID: user.ID}, domain.StatusUpdateNotification(updated))
	}

	if eventType := domain.EventForStatus(updated.Status); eventType != "" {
		ev := domain.BookingEvent{
			BookingID: updated.ID,
			EventType: eventType,
			EventData: map[string]any{"status": updated.Status},
			CreatedAt: time.Now().UTC(),
		}
		if err := s.events.PublishBookingEvent(ctx, eventType, ev); err != nil {
			s.log.Error(logger.Entry{
				Action:    "booking_event_publish_failed",
				Message:   err.Error(),
				BookingID: updated.ID,
				Error:     &logger.ErrObj{Msg: err.Error()},
			})
		}
	}

	return updated, nil
}
