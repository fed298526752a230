package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gotofast/logistics/internal/common"
	"github.com/gotofast/logistics/internal/dbx"
	"github.com/gotofast/logistics/internal/server/models"
)

// SQLRepository works against both PostgreSQL and SQLite: the queries
// stick to the common subset ($n placeholders, RETURNING).
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	query :=
		`INSERT INTO admins (username, email, password_hash, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`

	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, query,
		admin.Username, admin.Email, admin.PasswordHash, admin.IsActive, admin.CreatedAt).Scan(&admin.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return admin, nil
}

const selectAdmin = `SELECT id, username, email, password_hash, is_active, created_at, last_login_at FROM admins`

func (r *SQLRepository) GetAdminByID(ctx context.Context, id int64) (*models.Admin, error) {
	return r.getOne(ctx, selectAdmin+` WHERE id = $1`, id)
}

func (r *SQLRepository) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.getOne(ctx, selectAdmin+` WHERE username = $1`, username)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg any) (*models.Admin, error) {
	admin := &models.Admin{}
	var lastLogin sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&admin.ID, &admin.Username, &admin.Email, &admin.PasswordHash,
		&admin.IsActive, &admin.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if lastLogin.Valid {
		admin.LastLoginAt = &lastLogin.Time
	}
	return admin, nil
}

func (r *SQLRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE admins SET last_login_at = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
