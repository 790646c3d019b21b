package httpapi

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/race-tipping/internal/domain/user"
	"github.com/riskibarqy/race-tipping/internal/usecase"
)

const internalJobTokenHeader = "X-Internal-Job-Token"

// TokenVerifier verifies bearer tokens against the configured identity source.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
}

// UserSyncer records the authenticated identity before a request is served.
type UserSyncer interface {
	EnsureUser(ctx context.Context, principal user.Principal) error
}

// bearerToken extracts the credential from an "Authorization: Bearer x"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", fmt.Errorf("%w: missing Authorization header", usecase.ErrUnauthorized)
	}
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("%w: invalid Authorization header format", usecase.ErrUnauthorized)
	}
	return token, nil
}

func RequireAuth(verifier TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireAuth")
		defer span.End()

		token, err := bearerToken(r.Header.Get("Authorization"))
		if err == nil {
			var principal user.Principal
			if principal, err = verifier.VerifyAccessToken(ctx, token); err == nil {
				next.ServeHTTP(w, r.WithContext(withPrincipal(ctx, principal)))
				return
			}
		}
		writeError(ctx, w, err)
	})
}

// SyncUser upserts the principal's user record. A nil syncer is a no-op.
func SyncUser(syncer UserSyncer, next http.Handler) http.Handler {
	if syncer == nil {
		return next
	}
	return principalGate("httpapi.SyncUser", next, func(ctx context.Context, p user.Principal) error {
		return syncer.EnsureUser(ctx, p)
	})
}

// RequireAction rejects principals whose role may not perform action.
func RequireAction(action user.Action, next http.Handler) http.Handler {
	return principalGate("httpapi.RequireAction", next, func(_ context.Context, p user.Principal) error {
		if user.CanPerform(p.Role, action) {
			return nil
		}
		return fmt.Errorf("%w: role %s cannot perform %s", usecase.ErrForbidden, p.Role, action)
	})
}

// principalGate runs check against the authenticated principal and only
// calls next when it passes.
func principalGate(spanName string, next http.Handler, check func(context.Context, user.Principal) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), spanName)
		defer span.End()

		principal, err := requirePrincipal(ctx)
		if err == nil {
			err = check(ctx, principal)
		}
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireInternalJobToken guards job callbacks with a shared secret. An
// unset secret disables the endpoints instead of leaving them open.
func RequireInternalJobToken(token string, next http.Handler) http.Handler {
	expected := []byte(strings.TrimSpace(token))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireInternalJobToken")
		defer span.End()

		if len(expected) == 0 {
			writeError(ctx, w, fmt.Errorf("%w: internal job token is not configured", usecase.ErrDependencyUnavailable))
			return
		}
		provided := []byte(strings.TrimSpace(r.Header.Get(internalJobTokenHeader)))
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			writeError(ctx, w, fmt.Errorf("%w: invalid internal job token", usecase.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
