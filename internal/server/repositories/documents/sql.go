package documents

import (
	"context"
	"fmt"

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

func (r *SQLRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO partner_documents (id, partner_id, kind, storage_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, doc.ID, doc.PartnerID, doc.Kind, doc.StorageKey, doc.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) ListByPartner(ctx context.Context, partnerID int64) ([]models.Document, error) {
	query := `
		SELECT id, partner_id, kind, storage_key, created_at
		FROM partner_documents
		WHERE partner_id = $1
		ORDER BY created_at DESC, id
	`
	rows, err := r.db.QueryContext(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Document{}
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.PartnerID, &d.Kind, &d.StorageKey, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
