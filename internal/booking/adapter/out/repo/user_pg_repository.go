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

// UserPgRepository resolves customer accounts.
type UserPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewUserPgRepository(pool *pgxpool.Pool, log *logger.Logger) *UserPgRepository {
	return &UserPgRepository{
		pool: pool,
		log:  log,
	}
}

func (r *UserPgRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT id, full_name, phone, email, fcm_token FROM users WHERE id = $1`, userID)
}

func (r *UserPgRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT id, full_name, phone, email, fcm_token FROM users WHERE phone = $1`, phone)
}

func (r *UserPgRepository) findOne(ctx context.Context, query, arg string) (*domain.User, error) {
	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.FullName,
		&u.Phone,
		&u.Email,
		&u.FCMToken,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.log.Error(logger.Entry{
			Action:  "db_find_user_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r *UserPgRepository) UpdateFCMToken(ctx context.Context, userID, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET fcm_token = $2, updated_at = $3 WHERE id = $1`,
		userID, token, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update user fcm token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
