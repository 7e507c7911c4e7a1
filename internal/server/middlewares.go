package server

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/pkg/errors"
)

// guestIDHeader carries a client-generated identity for requests made
// without an account.
const guestIDHeader = "X-User-Id"

type identityContextKey struct{}
type identityContext struct {
	userID string
	guest  bool
}

type traceContextKey struct{}
type traceContext struct {
	traceID string
}

func setIdentityContext(ctx context.Context, ic identityContext) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ic)
}
func getIdentityContext(ctx context.Context) (identityContext, error) {
	ic, ok := ctx.Value(identityContextKey{}).(identityContext)
	if !ok {
		return ic, errors.New("failed to get identityContext")
	}
	return ic, nil
}

func setTraceContext(ctx context.Context, tc traceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, tc)
}
func getTraceContext(ctx context.Context) traceContext {
	tc, _ := ctx.Value(traceContextKey{}).(traceContext)
	return tc
}

func (s Server) maxBytesMw(next http.Handler) http.Handler {
	return http.MaxBytesHandler(next, 3000)
}

func (s Server) loggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		traceID := uuid.NewString()
		s.Logger.Debugf("loggingMw: New incoming request %s %s from %s, UA: %s, Host: %#v, TraceID: %s",
			r.Method, r.URL.Path, r.RemoteAddr, r.UserAgent(), r.Host, traceID)

		defer func() {
			if re := recover(); re != nil {
				s.Logger.Errorf("loggingMw: Handler crashed, err: %v, TraceID: %s, stack trace:\n%s", re, traceID, debug.Stack())
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r.WithContext(setTraceContext(r.Context(), traceContext{traceID: traceID})))

		s.Logger.Debugf("loggingMw: Incoming request %s %s took %dms, TraceID: %s",
			r.Method, r.URL.Path, time.Since(start).Milliseconds(), traceID)
	})
}

// identityMw resolves the identity a request acts as. A valid bearer token
// wins; without one the guest ID header is accepted so anonymous clients can
// keep their own item lists. Requests carrying neither are rejected.
func (s Server) identityMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID

		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			raw := strings.TrimPrefix(auth, "Bearer ")
			token, err := jwt.Parse([]byte(raw), jwt.WithKey(jwa.HS256, s.AuthSecretKey), jwt.WithValidate(true))
			if err != nil {
				s.Logger.Debugf("identityMw: Failed to validate token, err: %v, TraceID: %s", err, tid)
				s.writeMessage(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			ic := identityContext{userID: token.Subject()}
			s.Logger.Debugf("identityMw: UserID: %s, TraceID: %s", ic.userID, tid)
			next.ServeHTTP(w, r.WithContext(setIdentityContext(r.Context(), ic)))
			return
		}

		if gid := r.Header.Get(guestIDHeader); gid != "" {
			s.Logger.Warnf("identityMw: No bearer token, using guest ID: %s, TraceID: %s", gid, tid)
			ic := identityContext{userID: gid, guest: true}
			next.ServeHTTP(w, r.WithContext(setIdentityContext(r.Context(), ic)))
			return
		}

		s.Logger.Debugf("identityMw: Request without identity, TraceID: %s", tid)
		s.writeMessage(w, http.StatusUnauthorized, "Authentication required")
	})
}
