// Package partners stores delivery partner accounts.
package partners

import (
	"context"
	"time"

	"github.com/gotofast/logistics/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, partner *models.DeliveryPartner) (*models.DeliveryPartner, error)
	GetPartnerByID(ctx context.Context, id int64) (*models.DeliveryPartner, error)
	GetPartnerByPhone(ctx context.Context, phone string) (*models.DeliveryPartner, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
