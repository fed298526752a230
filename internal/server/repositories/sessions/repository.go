// Package sessions stores the server-side half of login sessions so that
// logging out revokes a cookie before its signature expires.
package sessions

import (
	"context"
	"time"

	"github.com/gotofast/logistics/internal/server/models"
)

type Repository interface {
	// Create stores token for principalID, expiring at now+validity.
	Create(ctx context.Context, principalID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is unknown.
	// Expiry is left to the caller.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired purges sessions that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
