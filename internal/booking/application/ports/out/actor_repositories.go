package out

import (
	"context"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
)

// UserRepository resolves customer accounts. Bookings carry a customer
// snapshot, so the user behind a booking is found by the stored phone.
type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error
}

// MechanicRepository resolves mechanic accounts and keeps their counters.
type MechanicRepository interface {
	FindByID(ctx context.Context, mechanicID string) (*domain.Mechanic, error)
	IncrementTotalBookings(ctx context.Context, mechanicID string) error
	UpdateFCMToken(ctx context.Context, mechanicID, token string) error
}

// AdminRepository is only consulted for device-token bookkeeping.
type AdminRepository interface {
	UpdateFCMToken(ctx context.Context, adminID, token string) error
}
