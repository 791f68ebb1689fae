package identity

import (
	"errors"
	"net/http"

	"github.com/Wuchinator/artisan-market/pkg/respond"
	"go.uber.org/zap"
)

type Resolver interface {
	Resolve(token string) (*Identity, error)
}

// Authenticate attaches the identity behind a valid bearer token. Requests
// without a usable token continue anonymously.
func Authenticate(resolver Resolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := resolver.Resolve(token)
			if err != nil {
				if errors.Is(err, ErrSecretNotConfigured) {
					logger.Error("token verification unavailable", zap.Error(err))
				} else {
					logger.Debug("ignoring invalid access token", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == nil {
			respond.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromContext(r.Context())
		if id == nil {
			respond.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !id.IsAdmin() {
			respond.Error(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionMiddleware seeds the anonymous session from its cookie. A malformed
// cookie is ignored, so the session mints and persists a fresh id.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var existing string
		if c, err := r.Cookie(SessionCookieName); err == nil && ValidSessionID(c.Value) {
			existing = c.Value
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), NewSession(existing))))
	})
}

// PersistSession hands a freshly generated identifier back to the browser as
// a session cookie. It must run before the response body is written.
func PersistSession(w http.ResponseWriter, s *Session, secure bool) {
	if s == nil || !s.Generated() {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.AnonymousID(),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
