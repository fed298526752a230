package principal

import (
	"context"
	"errors"
	"fmt"

	"github.com/gotofast/logistics/internal/common"
	"github.com/gotofast/logistics/internal/logging"
	"github.com/gotofast/logistics/internal/server/models"
)

// AdminLookup finds an administrator by id, returning common.ErrorNotFound
// when there is none.
type AdminLookup interface {
	GetAdminByID(ctx context.Context, id int64) (*models.Admin, error)
}

// PartnerLookup finds a delivery partner by id, returning
// common.ErrorNotFound when there is none.
type PartnerLookup interface {
	GetPartnerByID(ctx context.Context, id int64) (*models.DeliveryPartner, error)
}

// Resolver turns session identifiers into principals. It keeps no state of
// its own and is safe for concurrent use.
type Resolver struct {
	admins   AdminLookup
	partners PartnerLookup
	logger   logging.Logger
}

func NewResolver(admins AdminLookup, partners PartnerLookup, logger logging.Logger) *Resolver {
	return &Resolver{
		admins:   admins,
		partners: partners,
		logger:   logger.With("module", "principal_resolver"),
	}
}

// Resolve returns the principal named by raw, or nil when there is none.
//
// Absence is not an error: an unknown kind, an id that no longer exists and
// a malformed identifier all yield (nil, nil), so tampered or stale session
// data leaves the request unauthenticated. Only lookup failures are
// returned as errors, and they are not retried.
func (r *Resolver) Resolve(ctx context.Context, raw string) (Principal, error) {
	id, err := Parse(raw)
	if err != nil {
		if errors.Is(err, ErrMalformedIdentifier) {
			r.logger.Warn(ctx, "malformed principal identifier", "identifier", raw)
		}
		return nil, nil
	}
	return r.ResolveIdentifier(ctx, id)
}

// ResolveIdentifier looks up an already parsed identifier.
func (r *Resolver) ResolveIdentifier(ctx context.Context, id Identifier) (Principal, error) {
	switch id.Kind {
	case KindAdmin:
		admin, err := r.admins.GetAdminByID(ctx, id.ID)
		if err != nil {
			return r.absentOrError(ctx, id, err)
		}
		return AdminPrincipal{Admin: admin}, nil

	case KindPartner:
		partner, err := r.partners.GetPartnerByID(ctx, id.ID)
		if err != nil {
			return r.absentOrError(ctx, id, err)
		}
		return PartnerPrincipal{DeliveryPartner: partner}, nil
	}

	return nil, nil
}

func (r *Resolver) absentOrError(ctx context.Context, id Identifier, err error) (Principal, error) {
	if errors.Is(err, common.ErrorNotFound) {
		r.logger.Debug(ctx, "principal not found", "identifier", id.String())
		return nil, nil
	}
	return nil, fmt.Errorf("resolve %s: %w", id, err)
}
