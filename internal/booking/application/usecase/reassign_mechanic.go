package usecase

import (
	"context"
	"fmt"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/in"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/out"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

// ReassignMechanicService swaps the mechanic assigned to a booking. The
// mechanic must exist; the booking status is untouched and no notification
// is sent, the new mechanic sees the booking through their list.
type ReassignMechanicService struct {
	bookingRepo  out.BookingRepository
	mechanicRepo out.MechanicRepository
	log          *logger.Logger
}

func NewReassignMechanicService(
	bookingRepo out.BookingRepository,
	mechanicRepo out.MechanicRepository,
	log *logger.Logger,
) *ReassignMechanicService {
	return &ReassignMechanicService{
		bookingRepo:  bookingRepo,
		mechanicRepo: mechanicRepo,
		log:          log,
	}
}

func (s *ReassignMechanicService) Execute(ctx context.Context, input in.ReassignMechanicInput) (*domain.Booking, error) {
	if _, err := s.mechanicRepo.FindByID(ctx, input.MechanicID); err != nil {
		return nil, err
	}

	updated, err := s.bookingRepo.UpdateMechanic(ctx, input.BookingID, input.MechanicID)
	if err != nil {
		return nil, fmt.Errorf("update booking mechanic: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:    "booking_mechanic_reassigned",
		Message:   input.MechanicID,
		BookingID: updated.ID,
	})

	return updated, nil
}
