package out

import (
	"context"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
)

// BookingRepository is the persistence boundary for bookings. Single-row
// operations, assumed strongly consistent; no cross-row transactions needed.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error

	FindByID(ctx context.Context, bookingID string) (*domain.Booking, error)

	// List returns bookings newest first.
	List(ctx context.Context, limit int) ([]*domain.Booking, error)

	// UpdateStatus writes the new status and returns the updated row.
	UpdateStatus(ctx context.Context, bookingID string, status domain.Status) (*domain.Booking, error)

	// UpdateMechanic reassigns the booking and returns the updated row.
	UpdateMechanic(ctx context.Context, bookingID, mechanicID string) (*domain.Booking, error)

	// Delete removes the booking. Administrative path, not part of the lifecycle.
	Delete(ctx context.Context, bookingID string) error
}
