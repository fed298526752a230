// Package admins stores administrator accounts.
package admins

import (
	"context"
	"time"

	"github.com/gotofast/logistics/internal/server/models"
)

type Repository interface {
	// Create inserts admin and fills in its ID. A taken username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)

	// GetAdminByID and GetAdminByUsername return common.ErrorNotFound
	// when no row matches.
	GetAdminByID(ctx context.Context, id int64) (*models.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)

	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
