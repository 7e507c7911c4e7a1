package session

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct{ t *testing.T }

func (l testLogger) Debugf(format string, v ...any) { l.t.Logf("DEBUG: "+format, v...) }
func (l testLogger) Warnf(format string, v ...any)  { l.t.Logf("WARN: "+format, v...) }
func (l testLogger) Errorf(format string, v ...any) { l.t.Logf("ERROR: "+format, v...) }

func signedToken(t *testing.T, expiresIn time.Duration) string {
	key, err := jwk.FromRaw([]byte("test-secret-key"))
	require.NoError(t, err)
	token, err := jwt.NewBuilder().
		Subject("user-1").
		Expiration(time.Now().Add(expiresIn)).
		Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, key))
	require.NoError(t, err)
	return string(signed)
}

func TestSessionStartsAnonymous(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "session.json"), testLogger{t})
	assert.Equal(t, Anonymous, s.State())
}

func TestSessionGuestIDStableAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first := Open(path, testLogger{t}).GuestID()
	assert.NotEmpty(t, first)

	second := Open(path, testLogger{t}).GuestID()
	assert.Equal(t, first, second, "the guest identity must survive restarts")
}

func TestSessionSignInSignOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := Open(path, testLogger{t})
	guestID := s.GuestID()

	require.NoError(t, s.SignIn(signedToken(t, time.Hour), "access", "", "alex"))
	assert.Equal(t, Authenticated, s.State())
	assert.Equal(t, "alex", s.Username())

	reopened := Open(path, testLogger{t})
	assert.Equal(t, Authenticated, reopened.State(), "a signed-in session must survive restarts")

	require.NoError(t, s.SignOut())
	assert.Equal(t, Anonymous, s.State())
	assert.Equal(t, guestID, s.GuestID(), "the guest identity survives sign-out")
}

func TestSessionExpiredTokenSignsOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := Open(path, testLogger{t})
	require.NoError(t, s.SignIn(signedToken(t, -time.Hour), "access", "", "alex"))

	assert.Equal(t, Anonymous, s.State())
	assert.Empty(t, s.Username(), "expired material must be cleared")

	reopened := Open(path, testLogger{t})
	assert.Equal(t, Anonymous, reopened.State())
}

func TestSessionExpiryMargin(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "session.json"), testLogger{t})
	require.NoError(t, s.SignIn(signedToken(t, 30*time.Second), "access", "", "alex"))
	assert.Equal(t, Anonymous, s.State(), "a token inside the expiry margin counts as expired")
}

func TestSessionApply(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "session.json"), testLogger{t})

	r, err := http.NewRequest(http.MethodGet, "https://api.example.com/items", nil)
	require.NoError(t, err)
	s.Apply(r)
	assert.Empty(t, r.Header.Get("Authorization"))
	assert.Equal(t, s.GuestID(), r.Header.Get(GuestIDHeader))

	token := signedToken(t, time.Hour)
	require.NoError(t, s.SignIn(token, "access", "", "alex"))
	s.Apply(r)
	assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
	assert.Empty(t, r.Header.Get(GuestIDHeader), "guest header must not leak on authenticated requests")
}

func TestSessionInvalidateRedirects(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "session.json"), testLogger{t})
	require.NoError(t, s.SignIn(signedToken(t, time.Hour), "access", "", "alex"))

	var target string
	s.OnSignInRedirect(func(t string) { target = t })
	s.Invalidate()

	assert.Equal(t, Anonymous, s.State())
	assert.Equal(t, SignInPage, target)
}

func TestSessionCorruptFileDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{not json"), 0600))

	s := Open(path, testLogger{t})
	assert.Equal(t, Anonymous, s.State())
}
