package middleware

import (
	"context"
	"net/http"
	"strings"

	credlock "github.com/credlock/credlock"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the verified claims injected by [Guard], if
// the request passed through it.
func AuthResultFromContext(ctx context.Context) (*credlock.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*credlock.AuthResult)
	return res, ok
}

// Guard returns middleware that authenticates the bearer credential on each
// request and injects the verified claims into the request context. Requests
// without a valid credential are rejected with 401.
func Guard(engine *credlock.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := engine.Authenticate(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
