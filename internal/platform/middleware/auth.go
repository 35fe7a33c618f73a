package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
	dErrors "github.com/edd1080/project-olympo-sub002/pkg/domain-errors"
	"github.com/edd1080/project-olympo-sub002/pkg/platform/httputil"
	"github.com/edd1080/project-olympo-sub002/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns the investigator it
// belongs to. Implemented by internal/token; kept as an interface so handler
// tests can stub authentication.
type TokenValidator interface {
	ValidateToken(tokenString string) (id.InvestigatorID, error)
}

// RequireAuth rejects requests without a valid investigator bearer token and
// places the investigator id in the request context on success.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			const bearerPrefix = "Bearer "

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			investigatorID, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithInvestigatorID(ctx, investigatorID)))
		})
	}
}
