package identity

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(sub string, role string) Claims {
	return Claims{
		Email: "buyer@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "auth.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestJWTResolver_Resolve(t *testing.T) {
	userID := uuid.New()
	resolver := NewJWTResolver(testSecret, "auth.example.com")

	t.Run("valid token", func(t *testing.T) {
		id, err := resolver.Resolve(signToken(t, testSecret, validClaims(userID.String(), "authenticated")))
		require.NoError(t, err)
		assert.Equal(t, userID, id.UserID)
		assert.Equal(t, "buyer@example.com", id.Email)
		assert.False(t, id.IsAdmin())
	})

	t.Run("admin role", func(t *testing.T) {
		id, err := resolver.Resolve(signToken(t, testSecret, validClaims(userID.String(), RoleAdmin)))
		require.NoError(t, err)
		assert.True(t, id.IsAdmin())
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := resolver.Resolve(signToken(t, "other", validClaims(userID.String(), "")))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := validClaims(userID.String(), "")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := resolver.Resolve(signToken(t, testSecret, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims(userID.String(), "")
		claims.Issuer = "evil.example.com"
		_, err := resolver.Resolve(signToken(t, testSecret, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject not a uuid", func(t *testing.T) {
		_, err := resolver.Resolve(signToken(t, testSecret, validClaims("user-42", "")))
		assert.ErrorIs(t, err, ErrInvalidSubject)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := resolver.Resolve("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("no secret", func(t *testing.T) {
		_, err := NewJWTResolver("", "").Resolve("abc")
		assert.ErrorIs(t, err, ErrSecretNotConfigured)
	})
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}

func TestSession_GeneratesOnce(t *testing.T) {
	s := NewSession("")
	assert.False(t, s.Generated())

	first := s.AnonymousID()
	assert.Regexp(t, regexp.MustCompile(`^\d+_[0-9a-f]{9}$`), first)
	assert.True(t, s.Generated())

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.AnonymousID())
	}

	other := NewSession("")
	assert.NotEqual(t, first, other.AnonymousID())
}

func TestSession_ReusesExisting(t *testing.T) {
	s := NewSession("1700000000000_abcdef123")

	assert.Equal(t, "1700000000000_abcdef123", s.AnonymousID())
	assert.False(t, s.Generated())
}

func TestValidSessionID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"1700000000000_abcdef123", true},
		{"1700000000000_k3x9z0q2w", true},
		{newAnonymousID(time.Now()), true},
		{"", false},
		{"1700000000000_abcdef12", false},
		{"1700000000000_ABCDEF123", false},
		{"1700000000000-abcdef123", false},
		{"_abcdef123", false},
		{"1700000000000_abcdef123\n", false},
		{"<script>alert(1)</script>", false},
		{strings.Repeat("9", 40) + "_abcdef123", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidSessionID(tt.id), "%q", tt.id)
	}
}

func TestSessionMiddleware_ReplacesMalformedCookie(t *testing.T) {
	var seen string
	h := SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := SessionFromContext(r.Context())
		seen = s.AnonymousID()
		PersistSession(w, s, false)
	}))

	forged := strings.Repeat("1", 4000) + "_abcdef123"
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: forged})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEqual(t, forged, seen)
	assert.True(t, ValidSessionID(seen))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, seen, cookies[0].Value)
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	resolver := NewJWTResolver(testSecret, "")
	var seen *Identity

	h := Authenticate(resolver, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims(userID.String(), "")))
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, userID, seen.UserID)

	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, seen)
}

func TestRequireIdentityAndAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name     string
		id       *Identity
		mw       func(http.Handler) http.Handler
		wantCode int
	}{
		{"anonymous needs identity", nil, RequireIdentity, http.StatusUnauthorized},
		{"buyer has identity", &Identity{UserID: uuid.New()}, RequireIdentity, http.StatusNoContent},
		{"anonymous admin route", nil, RequireAdmin, http.StatusUnauthorized},
		{"buyer admin route", &Identity{UserID: uuid.New()}, RequireAdmin, http.StatusForbidden},
		{"admin admin route", &Identity{UserID: uuid.New(), Role: RoleAdmin}, RequireAdmin, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.id != nil {
				req = req.WithContext(WithIdentity(req.Context(), tt.id))
			}
			rec := httptest.NewRecorder()
			tt.mw(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestSessionMiddlewareAndPersist(t *testing.T) {
	h := SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := SessionFromContext(r.Context())
		_ = s.AnonymousID()
		PersistSession(w, s, false)
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies())
}
