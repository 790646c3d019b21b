package httpapi

import (
	"context"

	"github.com/riskibarqy/race-tipping/internal/domain/user"
)

type (
	principalKey  struct{}
	routeLabelKey struct{}
)

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}

// routeLabel is filled in by the mux-registered handler so outer middleware
// can see which pattern served the request.
type routeLabel struct {
	pattern string
}

func withRouteLabel(ctx context.Context, label *routeLabel) context.Context {
	return context.WithValue(ctx, routeLabelKey{}, label)
}

func routeLabelFromContext(ctx context.Context) (*routeLabel, bool) {
	label, ok := ctx.Value(routeLabelKey{}).(*routeLabel)
	return label, ok
}
