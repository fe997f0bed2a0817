package middleware

import (
	"errors"
	"net/http"

	"github.com/angelmondragon/washline-backend/api/responses"
	"github.com/angelmondragon/washline-backend/pkg/auth"
	"github.com/angelmondragon/washline-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/washline-backend/pkg/errors"
	"github.com/angelmondragon/washline-backend/pkg/logger"
)

// Auth requires a valid bearer token and stores the caller as a Principal.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := auth.ParseAccessToken(cfg, token)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					msg = "token expired"
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msg))
				return
			}

			p := principalFromClaims(claims)
			ctx := WithPrincipal(r.Context(), p)
			ctx = logg.WithUserID(ctx, p.UserID)
			ctx = logg.WithActorRole(ctx, p.Role)
			if p.OutletID != "" {
				ctx = logg.WithOutletID(ctx, p.OutletID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
