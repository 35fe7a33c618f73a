// Package requestid assigns a correlation id to every request so log lines
// from one investigation mutation can be stitched together.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/edd1080/project-olympo-sub002/pkg/requestcontext"
)

// Header is the request/response header carrying the correlation id.
const Header = "X-Request-ID"

// Middleware reuses an incoming X-Request-ID when present, otherwise mints a
// new one, and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
