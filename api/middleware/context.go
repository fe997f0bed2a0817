package middleware

import (
	"context"

	"github.com/angelmondragon/washline-backend/pkg/auth"
)

// Principal is the authenticated caller of an admin request.
type Principal struct {
	UserID   string
	Role     string
	OutletID string
}

type principalKey struct{}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller, or the zero value when the request
// was not authenticated.
func PrincipalFromContext(ctx context.Context) Principal {
	if ctx == nil {
		return Principal{}
	}
	p, _ := ctx.Value(principalKey{}).(Principal)
	return p
}

func principalFromClaims(claims *auth.AccessTokenClaims) Principal {
	p := Principal{UserID: claims.UserID.String(), Role: string(claims.Role)}
	if claims.OutletID != nil {
		p.OutletID = claims.OutletID.String()
	}
	return p
}

func UserIDFromContext(ctx context.Context) string {
	return PrincipalFromContext(ctx).UserID
}

func RoleFromContext(ctx context.Context) string {
	return PrincipalFromContext(ctx).Role
}

// OutletIDFromContext returns the outlet the caller's token is bound to, if any.
func OutletIDFromContext(ctx context.Context) string {
	return PrincipalFromContext(ctx).OutletID
}

// WithUserID sets the user on the caller already stored on ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	p := PrincipalFromContext(ctx)
	p.UserID = userID
	return WithPrincipal(ctx, p)
}

// WithRole sets the role on the caller already stored on ctx.
func WithRole(ctx context.Context, role string) context.Context {
	p := PrincipalFromContext(ctx)
	p.Role = role
	return WithPrincipal(ctx, p)
}
