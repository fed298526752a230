// Package documents records the objects delivery partners upload to
// object storage.
package documents

import (
	"context"

	"github.com/gotofast/logistics/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, doc *models.Document) error
	ListByPartner(ctx context.Context, partnerID int64) ([]models.Document, error)
}
