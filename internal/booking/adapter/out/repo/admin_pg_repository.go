package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

var errAdminNotFound = errors.New("admin not found")

// AdminPgRepository only tracks admin push tokens.
type AdminPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewAdminPgRepository(pool *pgxpool.Pool, log *logger.Logger) *AdminPgRepository {
	return &AdminPgRepository{
		pool: pool,
		log:  log,
	}
}

func (r *AdminPgRepository) UpdateFCMToken(ctx context.Context, adminID, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admins SET fcm_token = $2 WHERE id = $1`,
		adminID, token,
	)
	if err != nil {
		return fmt.Errorf("update admin fcm token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errAdminNotFound
	}
	return nil
}
