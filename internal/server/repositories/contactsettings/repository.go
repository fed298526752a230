// Package contactsettings stores the key/value pairs rendered on the
// public contact page.
package contactsettings

import (
	"context"
	"time"

	"github.com/gotofast/logistics/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.ContactSetting, error)
	Get(ctx context.Context, key string) (*models.ContactSetting, error)

	// InsertIfAbsent never overwrites an existing value. It reports
	// whether a row was written.
	InsertIfAbsent(ctx context.Context, key, value string, now time.Time) (bool, error)

	// Update returns common.ErrorNotFound for an unknown key.
	Update(ctx context.Context, key, value string, now time.Time) error
}
