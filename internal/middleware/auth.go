package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-notes-api/internal/metrics"
	"go-notes-api/internal/model"
)

type tokenParser interface {
	Parse(token string) (string, error)
}

type identityFinder interface {
	FindByUsername(ctx context.Context, username string) (model.Identity, error)
}

type principalKey struct{}

// AuthenticatedHandlerFunc is a handler that can only be reached with a
// resolved principal.
type AuthenticatedHandlerFunc func(w http.ResponseWriter, r *http.Request, principal model.Principal)

type AuthMiddleware struct {
	tokens  tokenParser
	users   identityFinder
	metrics *metrics.Metrics
}

func NewAuthMiddleware(tokens tokenParser, users identityFinder, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, metrics: m}
}

// Authenticate attaches a principal when the request carries a valid
// bearer token for an existing user. Anything else continues anonymously;
// Require decides whether that is acceptable.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isAuthPath(r) {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			m.metrics.TokenVerification(metrics.ResultMissing)
			next.ServeHTTP(w, r)
			return
		}

		subject, err := m.tokens.Parse(token)
		if err != nil {
			m.metrics.TokenVerification(tokenResult(err))
			slog.Debug("bearer token rejected", "request_id", RequestIDFromContext(r.Context()), "error", err)
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.users.FindByUsername(r.Context(), subject)
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				m.metrics.TokenVerification(metrics.ResultUnknownSubject)
			} else {
				m.metrics.TokenVerification(metrics.ResultError)
				slog.Error("resolve token subject", "request_id", RequestIDFromContext(r.Context()), "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		m.metrics.TokenVerification(metrics.ResultSuccess)
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), model.PrincipalFor(identity))))
	})
}

// Require rejects anonymous requests with 401 and hands the principal to h.
func Require(h AuthenticatedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeFailure(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		h(w, r, principal)
	}
}

func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(model.Principal)
	return principal, ok
}

func WithPrincipal(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

func tokenResult(err error) string {
	switch {
	case errors.Is(err, model.ErrTokenExpired):
		return metrics.ResultExpired
	case errors.Is(err, model.ErrTokenInvalidSignature):
		return metrics.ResultBadSignature
	default:
		return metrics.ResultMalformed
	}
}
