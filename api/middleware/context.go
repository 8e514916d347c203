package middleware

import (
	"context"

	pkgAuth "github.com/snackstand/snackstand-backend/pkg/auth"
	"github.com/snackstand/snackstand-backend/pkg/enums"
)

type contextKey string

const (
	ctxCustomerID contextKey = "customer_id"
	ctxRole       contextKey = "actor_role"
)

func CustomerIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxCustomerID).(uint); ok {
		return v
	}
	return 0
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// PrincipalFromContext rebuilds the authenticated actor from request context.
func PrincipalFromContext(ctx context.Context) pkgAuth.Principal {
	return pkgAuth.Principal{
		CustomerID: CustomerIDFromContext(ctx),
		Role:       enums.ActorRole(RoleFromContext(ctx)),
	}
}

// WithPrincipal injects the authenticated actor into the context.
func WithPrincipal(ctx context.Context, p pkgAuth.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxCustomerID, p.CustomerID)
	return context.WithValue(ctx, ctxRole, string(p.Role))
}
