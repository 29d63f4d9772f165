package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"noshowblocklist/internal/delivery/http/helpers"
	"noshowblocklist/internal/domain"
)

type contextKey string

const operatorKey contextKey = "operator"

// SetOperator returns a context carrying the authenticated operator subject.
func SetOperator(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, operatorKey, subject)
}

// OperatorFromContext returns the operator subject set by RequireOperator, if present.
func OperatorFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(operatorKey).(string)
	return s, ok
}

// RequireOperator returns a wrapper that validates the Bearer token and sets the operator in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireOperator(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "missing token")
				return
			}
			subject, err := verifier.Verify(token)
			if errors.Is(err, domain.ErrTokenExpired) {
				logger.InfoContext(r.Context(), "operator token expired", "path", r.URL.Path)
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "token expired, issue a new one with blocklist issue-token")
				return
			}
			if err != nil {
				logger.WarnContext(r.Context(), "operator token rejected", "path", r.URL.Path, "err", err)
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid token")
				return
			}
			next(w, r.WithContext(SetOperator(r.Context(), subject)))
		}
	}
}

// RequireBasicAuth returns a wrapper that checks HTTP basic credentials before calling next.
// A nil checker disables the check.
func RequireBasicAuth(checker domain.CredentialChecker, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if checker == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || checker.Check(user, pass) != nil {
				logger.WarnContext(r.Context(), "webhook credentials rejected", "path", r.URL.Path, "has_header", ok)
				w.Header().Set("WWW-Authenticate", `Basic realm="Protected"`)
				helpers.WriteText(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next(w, r)
		}
	}
}
