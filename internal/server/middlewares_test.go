package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct{ t *testing.T }

func (l testLogger) Debug(v ...any)                 { l.t.Log(v...) }
func (l testLogger) Info(v ...any)                  { l.t.Log(v...) }
func (l testLogger) Warn(v ...any)                  { l.t.Log(v...) }
func (l testLogger) Error(v ...any)                 { l.t.Log(v...) }
func (l testLogger) Debugf(format string, v ...any) { l.t.Logf(format, v...) }
func (l testLogger) Infof(format string, v ...any)  { l.t.Logf(format, v...) }
func (l testLogger) Warnf(format string, v ...any)  { l.t.Logf(format, v...) }
func (l testLogger) Errorf(format string, v ...any) { l.t.Logf(format, v...) }

func newTestServer(t *testing.T) Server {
	key, err := jwk.FromRaw([]byte("test-secret-key"))
	require.NoError(t, err)
	return Server{Logger: testLogger{t}, AuthSecretKey: key}
}

func signedToken(t *testing.T, s Server, subject string, expiresIn time.Duration) string {
	token, err := jwt.NewBuilder().
		Subject(subject).
		Expiration(time.Now().Add(expiresIn)).
		Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, s.AuthSecretKey))
	require.NoError(t, err)
	return string(signed)
}

func identityProbe(t *testing.T, got *identityContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ic, err := getIdentityContext(r.Context())
		require.NoError(t, err)
		*got = ic
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityMwBearerToken(t *testing.T) {
	s := newTestServer(t)
	var got identityContext

	r := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, s, "user-42", time.Hour))
	w := httptest.NewRecorder()
	s.identityMw(identityProbe(t, &got)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", got.userID)
	assert.False(t, got.guest)
}

func TestIdentityMwExpiredToken(t *testing.T) {
	s := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, s, "user-42", -time.Hour))
	w := httptest.NewRecorder()
	s.identityMw(identityProbe(t, &identityContext{})).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestIdentityMwGarbageToken(t *testing.T) {
	s := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	s.identityMw(identityProbe(t, &identityContext{})).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentityMwGuestHeader(t *testing.T) {
	s := newTestServer(t)
	var got identityContext

	r := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	r.Header.Set(guestIDHeader, "guest-abc123")
	w := httptest.NewRecorder()
	s.identityMw(identityProbe(t, &got)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "guest-abc123", got.userID)
	assert.True(t, got.guest)
}

func TestIdentityMwNoIdentity(t *testing.T) {
	s := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()
	s.identityMw(identityProbe(t, &identityContext{})).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestLoggingMwRecoversFromPanic(t *testing.T) {
	s := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()
	s.loggingMw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	})).ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
