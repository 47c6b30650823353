package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

// MechanicPgRepository resolves mechanic accounts and keeps their counters.
type MechanicPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewMechanicPgRepository(pool *pgxpool.Pool, log *logger.Logger) *MechanicPgRepository {
	return &MechanicPgRepository{
		pool: pool,
		log:  log,
	}
}

func (r *MechanicPgRepository) FindByID(ctx context.Context, mechanicID string) (*domain.Mechanic, error) {
	query := `
		SELECT id, name, phone, rating, total_bookings, fcm_token
		FROM mechanics
		WHERE id = $1
	`

	m := &domain.Mechanic{}
	err := r.pool.QueryRow(ctx, query, mechanicID).Scan(
		&m.ID,
		&m.Name,
		&m.Phone,
		&m.Rating,
		&m.TotalBookings,
		&m.FCMToken,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMechanicNotFound
		}
		r.log.Error(logger.Entry{
			Action:  "db_find_mechanic_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query mechanic: %w", err)
	}
	return m, nil
}

func (r *MechanicPgRepository) IncrementTotalBookings(ctx context.Context, mechanicID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE mechanics SET total_bookings = total_bookings + 1, updated_at = $2 WHERE id = $1`,
		mechanicID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("increment mechanic bookings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMechanicNotFound
	}
	return nil
}

func (r *MechanicPgRepository) UpdateFCMToken(ctx context.Context, mechanicID, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE mechanics SET fcm_token = $2, updated_at = $3 WHERE id = $1`,
		mechanicID, token, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update mechanic fcm token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMechanicNotFound
	}
	return nil
}
