package middleware

import (
	"net/http"
	"strings"

	"campusnest/pkg/auth"
	httputil "campusnest/pkg/http"
	"campusnest/pkg/logger"
)

// Authenticate verifies the bearer token and stores the resulting actor in
// the request context. Every route behind it can assume auth.ActorFrom
// returns a non-nil actor.
func Authenticate(tokens *auth.TokenManager, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w, "missing Authorization header")
				return
			}

			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				writeUnauthorized(w, "Authorization header must be a bearer token")
				return
			}

			actor, err := tokens.VerifyToken(tokenStr)
			if err != nil {
				log.Warn("Token verification failed",
					"request_id", requestIDFrom(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			r = r.WithContext(auth.WithActor(r.Context(), actor))
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	_ = httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Success: false,
		Error:   message,
	})
}
