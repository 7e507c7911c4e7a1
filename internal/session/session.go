// Package session decides whether requests are attributed to an authenticated
// user or to a stable pseudonymous guest identity, and owns the persisted
// session material.
package session

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/pkg/errors"
)

const (
	// GuestIDHeader carries the guest identity on anonymous requests.
	GuestIDHeader = "X-User-Id"

	// SignInPage is the entry point an invalidated session redirects to.
	SignInPage = "/signin"

	// expiryMargin is subtracted from the token expiry so a request never
	// leaves with a credential about to lapse in flight.
	expiryMargin = time.Minute
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

// material is everything persisted on the device. Tokens and the guest
// identifier are independently clearable.
type material struct {
	IDToken      string `json:"idToken,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Username     string `json:"username,omitempty"`
	GuestID      string `json:"guestId,omitempty"`
}

type logger interface {
	Debugf(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

type Session struct {
	path       string
	logger     logger
	now        func() time.Time
	onRedirect func(target string)
	m          material
}

// Open loads persisted session material from path. Unreadable material is
// discarded and the session starts anonymous; that is never a hard failure.
func Open(path string, log logger) *Session {
	s := &Session{path: path, logger: log, now: time.Now}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Errorf("session: error reading session file %s, err: %v", path, err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.m); err != nil {
		log.Errorf("session: discarding corrupt session file %s, err: %v", path, err)
		s.m = material{}
		_ = os.Remove(path)
	}
	return s
}

// OnSignInRedirect registers the navigation hook run when the session is
// force-invalidated.
func (s *Session) OnSignInRedirect(fn func(target string)) {
	s.onRedirect = fn
}

// State reports the current gate state. A token past its safety-adjusted
// expiry transitions the session to Anonymous and clears its material.
func (s *Session) State() State {
	if s.m.IDToken == "" {
		return Anonymous
	}
	if s.tokenExpired() {
		s.logger.Debugf("session: token expired for user %s, signing out", s.m.Username)
		if err := s.SignOut(); err != nil {
			s.logger.Errorf("session: error clearing expired session, err: %v", err)
		}
		return Anonymous
	}
	return Authenticated
}

func (s *Session) tokenExpired() bool {
	token, err := jwt.ParseInsecure([]byte(s.m.IDToken))
	if err != nil {
		s.logger.Warnf("session: stored token is unreadable, treating as expired, err: %v", err)
		return true
	}
	exp := token.Expiration()
	if exp.IsZero() {
		return false
	}
	return !s.now().Before(exp.Add(-expiryMargin))
}

// SignIn transitions Anonymous -> Authenticated and persists the credential.
func (s *Session) SignIn(idToken, accessToken, refreshToken, username string) error {
	s.m.IDToken = idToken
	s.m.AccessToken = accessToken
	s.m.RefreshToken = refreshToken
	s.m.Username = username
	return s.persist()
}

// SignOut clears all credential material. The guest identifier survives so an
// anonymous session stays stable across sign-ins.
func (s *Session) SignOut() error {
	s.m.IDToken = ""
	s.m.AccessToken = ""
	s.m.RefreshToken = ""
	s.m.Username = ""
	return s.persist()
}

// Invalidate is the forced teardown after an authorization-rejected response:
// clear session material and redirect to the sign-in entry point.
func (s *Session) Invalidate() {
	if err := s.SignOut(); err != nil {
		s.logger.Errorf("session: error clearing session material, err: %v", err)
	}
	if s.onRedirect != nil {
		s.onRedirect(SignInPage)
	}
}

func (s *Session) Username() string {
	return s.m.Username
}

// GuestID returns the stable pseudonymous identifier, generating and
// persisting one on first use.
func (s *Session) GuestID() string {
	if s.m.GuestID == "" {
		s.m.GuestID = "guest-" + uuid.NewString()
		if err := s.persist(); err != nil {
			s.logger.Errorf("session: error persisting guest ID, err: %v", err)
		}
	}
	return s.m.GuestID
}

// Apply attaches the identity to an outgoing request: a bearer credential
// when authenticated, otherwise the guest identity header and no bearer.
func (s *Session) Apply(r *http.Request) {
	if s.State() == Authenticated {
		r.Header.Set("Authorization", "Bearer "+s.m.IDToken)
		r.Header.Del(GuestIDHeader)
		return
	}
	r.Header.Del("Authorization")
	r.Header.Set(GuestIDHeader, s.GuestID())
}

func (s *Session) persist() error {
	data, err := json.Marshal(s.m)
	if err != nil {
		return errors.Wrap(err, "error marshalling session material")
	}
	return errors.Wrapf(os.WriteFile(s.path, data, 0600), "error writing session file %s", s.path)
}
