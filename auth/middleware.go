package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
)

type contextKey struct{}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(*Identity)
	return identity, ok && identity != nil
}

// TokenFromRequest accepts "Authorization: Bearer <token>" and the legacy auth-token header.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get("auth-token"))
}

// Require rejects requests without a valid credential. An empty role admits any active user.
func (g *Gate) Require(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				http.Error(w, "Access denied", http.StatusUnauthorized)
				return
			}

			var (
				identity *Identity
				err      error
			)
			if role == "" {
				identity, err = g.Verify(r.Context(), token)
			} else {
				identity, err = g.RequireRole(r.Context(), token, role)
			}
			if err != nil {
				writeGateError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// Optional attaches the identity when a valid credential is present and never rejects.
func (g *Gate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := TokenFromRequest(r); token != "" {
			if identity, err := g.Verify(r.Context(), token); err == nil {
				r = r.WithContext(WithIdentity(r.Context(), identity))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func writeGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		http.Error(w, "Admin access required", http.StatusForbidden)
	case errors.Is(err, ErrDeactivated):
		http.Error(w, "Account is deactivated", http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidCredential):
		http.Error(w, "Invalid token", http.StatusUnauthorized)
	default:
		log.Printf("ERROR: verify credential: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
