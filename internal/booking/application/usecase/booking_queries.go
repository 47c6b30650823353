package usecase

import (
	"context"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/out"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

const defaultListLimit = 100

// BookingQueryService is the read side plus the administrative delete.
type BookingQueryService struct {
	bookingRepo out.BookingRepository
	log         *logger.Logger
}

func NewBookingQueryService(bookingRepo out.BookingRepository, log *logger.Logger) *BookingQueryService {
	return &BookingQueryService{bookingRepo: bookingRepo, log: log}
}

func (s *BookingQueryService) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.bookingRepo.FindByID(ctx, bookingID)
}

func (s *BookingQueryService) List(ctx context.Context, limit int) ([]*domain.Booking, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return s.bookingRepo.List(ctx, limit)
}

func (s *BookingQueryService) Delete(ctx context.Context, bookingID string) error {
	if err := s.bookingRepo.Delete(ctx, bookingID); err != nil {
		return err
	}
	s.log.Info(logger.Entry{
		Action:    "booking_deleted",
		Message:   "booking removed",
		BookingID: bookingID,
	})
	return nil
}
