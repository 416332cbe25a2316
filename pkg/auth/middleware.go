package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "fleetbook/pkg/errors"
	httputil "fleetbook/pkg/http"
	"fleetbook/pkg/logger"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorFromContext returns the authenticated actor placed by Authenticate.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

// Authenticate verifies the bearer token and stores the actor in the
// request context. Requests without a valid token are rejected.
func Authenticate(issuer *TokenIssuer, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				_ = httputil.WriteError(w, apperrors.Unauthorized("missing bearer token"))
				return
			}

			actor, err := issuer.Verify(tokenString)
			if err != nil {
				log.Warn("Session token rejected",
					"path", r.URL.Path,
					"error", err,
				)
				if errors.Is(err, ErrExpiredToken) {
					_ = httputil.WriteError(w, apperrors.Unauthorized("session token has expired"))
					return
				}
				_ = httputil.WriteError(w, apperrors.Unauthorized("invalid session token"))
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireAdmin guards a route so only admin actors can reach it.
func RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			_ = httputil.WriteError(w, apperrors.Unauthorized("missing actor context"))
			return
		}
		if !actor.IsAdmin {
			_ = httputil.WriteError(w, apperrors.Forbidden("admin role required"))
			return
		}
		next(w, r, ps)
	}
}
