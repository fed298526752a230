package partners

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

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create inserts partner; a phone number already in use gives
// common.ErrorAlreadyExists.
func (r *SQLRepository) Create(ctx context.Context, partner *models.DeliveryPartner) (*models.DeliveryPartner, error) {
	query :=
		`INSERT INTO delivery_partners (name, phone, email, password_hash, vehicle_type, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`

	if partner.CreatedAt.IsZero() {
		partner.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, query,
		partner.Name, partner.Phone, partner.Email, partner.PasswordHash,
		partner.VehicleType, partner.IsActive, partner.CreatedAt).Scan(&partner.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return partner, nil
}

const selectPartner = `SELECT id, name, phone, email, password_hash, vehicle_type, is_active, created_at, last_login_at
	FROM delivery_partners`

// GetPartnerByID returns common.ErrorNotFound when no partner has id.
func (r *SQLRepository) GetPartnerByID(ctx context.Context, id int64) (*models.DeliveryPartner, error) {
	return r.getOne(ctx, selectPartner+` WHERE id = $1`, id)
}

func (r *SQLRepository) GetPartnerByPhone(ctx context.Context, phone string) (*models.DeliveryPartner, error) {
	return r.getOne(ctx, selectPartner+` WHERE phone = $1`, phone)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg any) (*models.DeliveryPartner, error) {
	p := &models.DeliveryPartner{}
	var lastLogin sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.Name, &p.Phone, &p.Email, &p.PasswordHash,
		&p.VehicleType, &p.IsActive, &p.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if lastLogin.Valid {
		p.LastLoginAt = &lastLogin.Time
	}
	return p, nil
}

func (r *SQLRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE delivery_partners SET last_login_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("db error: %w", err)
	} else if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
