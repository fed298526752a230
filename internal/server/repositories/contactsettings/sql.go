package contactsettings

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

func (r *SQLRepository) List(ctx context.Context) ([]models.ContactSetting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM contact_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.ContactSetting
	for rows.Next() {
		var s models.ContactSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Get(ctx context.Context, key string) (*models.ContactSetting, error) {
	s := &models.ContactSetting{}
	err := r.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM contact_settings WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SQLRepository) InsertIfAbsent(ctx context.Context, key, value string, now time.Time) (bool, error) {
	query := `
		INSERT INTO contact_settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, key, value, now)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) Update(ctx context.Context, key, value string, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contact_settings SET value = $1, updated_at = $2 WHERE key = $3`, value, now, key)
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
