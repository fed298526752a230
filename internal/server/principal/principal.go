package principal

import (
	"context"

	"github.com/gotofast/logistics/internal/server/models"
)

// Principal is an authenticated account of any kind. The set of
// implementations is closed: AdminPrincipal and PartnerPrincipal.
type Principal interface {
	Identifier() Identifier
	DisplayName() string
	Active() bool

	sealed()
}

type AdminPrincipal struct {
	*models.Admin
}

func (p AdminPrincipal) Identifier() Identifier {
	return Identifier{Kind: KindAdmin, ID: p.ID}
}

func (p AdminPrincipal) DisplayName() string { return p.Username }
func (p AdminPrincipal) Active() bool        { return p.IsActive }
func (AdminPrincipal) sealed()               {}

type PartnerPrincipal struct {
	*models.DeliveryPartner
}

func (p PartnerPrincipal) Identifier() Identifier {
	return Identifier{Kind: KindPartner, ID: p.ID}
}

func (p PartnerPrincipal) DisplayName() string { return p.Name }
func (p PartnerPrincipal) Active() bool        { return p.IsActive }
func (PartnerPrincipal) sealed()               {}

type ctxKey struct{}

// WithPrincipal stores p in ctx for downstream handlers.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok && p != nil
}
