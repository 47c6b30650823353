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

const bookingColumns = `
	id, customer_name, customer_phone, customer_email,
	vehicle_make, vehicle_model, vehicle_year, vehicle_plate,
	service_type, mechanic_id, odometer, scheduled_at, amount,
	status, notes, spare_parts, created_at, updated_at
`

// BookingPgRepository is the PostgreSQL booking store.
type BookingPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewBookingPgRepository(pool *pgxpool.Pool, log *logger.Logger) *BookingPgRepository {
	return &BookingPgRepository{
		pool: pool,
		log:  log,
	}
}

func (r *BookingPgRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.pool.Exec(ctx, query,
		b.ID,
		b.Customer.Name,
		b.Customer.Phone,
		b.Customer.Email,
		b.Vehicle.Make,
		b.Vehicle.Model,
		b.Vehicle.Year,
		b.Vehicle.Plate,
		b.ServiceType,
		b.MechanicID,
		b.Odometer,
		b.ScheduledAt,
		b.Amount,
		b.Status,
		b.Notes,
		b.SpareParts,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		r.log.Error(logger.Entry{
			Action:    "db_create_booking_failed",
			Message:   err.Error(),
			BookingID: b.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

func (r *BookingPgRepository) FindByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		r.log.Error(logger.Entry{
			Action:    "db_find_booking_failed",
			Message:   err.Error(),
			BookingID: bookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query booking by id: %w", err)
	}

	return b, nil
}

func (r *BookingPgRepository) List(ctx context.Context, limit int) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

func (r *BookingPgRepository) UpdateStatus(ctx context.Context, bookingID string, status domain.Status) (*domain.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + bookingColumns

	b, err := scanBooking(r.pool.QueryRow(ctx, query, bookingID, status, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		r.log.Error(logger.Entry{
			Action:    "db_update_booking_status_failed",
			Message:   err.Error(),
			BookingID: bookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	return b, nil
}

func (r *BookingPgRepository) UpdateMechanic(ctx context.Context, bookingID, mechanicID string) (*domain.Booking, error) {
	query := `
		UPDATE bookings
		SET mechanic_id = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + bookingColumns

	b, err := scanBooking(r.pool.QueryRow(ctx, query, bookingID, mechanicID, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		r.log.Error(logger.Entry{
			Action:    "db_update_booking_mechanic_failed",
			Message:   err.Error(),
			BookingID: bookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("update booking mechanic: %w", err)
	}

	return b, nil
}

func (r *BookingPgRepository) Delete(ctx context.Context, bookingID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		r.log.Error(logger.Entry{
			Action:    "db_delete_booking_failed",
			Message:   err.Error(),
			BookingID: bookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID,
		&b.Customer.Name,
		&b.Customer.Phone,
		&b.Customer.Email,
		&b.Vehicle.Make,
		&b.Vehicle.Model,
		&b.Vehicle.Year,
		&b.Vehicle.Plate,
		&b.ServiceType,
		&b.MechanicID,
		&b.Odometer,
		&b.ScheduledAt,
		&b.Amount,
		&b.Status,
		&b.Notes,
		&b.SpareParts,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}
