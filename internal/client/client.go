package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"pricepulse/internal/misc"
)

// ErrUnauthorized marks a response that rejected the request's credential.
// The session gate tears itself down when it sees this.
var ErrUnauthorized = errors.New("request was not authorized")

// IdentityProvider attaches the identity of the current session to a request:
// a bearer credential when authenticated, a guest identity header otherwise.
type IdentityProvider interface {
	Apply(r *http.Request)
}

type Client struct {
	*http.Client
	BaseURL  string
	Redis    *redis.Client
	FCMKey   string
	SMTP     SMTPConfig
	Identity IdentityProvider
	Logger   logger

	// OnUnauthorized runs once per rejected credential, before the error is
	// returned to the caller.
	OnUnauthorized func()
}

type logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

func newRequest(ctx context.Context, method string, url string, body io.Reader) (*http.Request, error) {
	r, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	r.Header.Set("User-Agent", "PricePulse/1.0")
	r.Header.Set("Accept", "application/json")
	return r, nil
}

// doAPI executes a request against the PricePulse API, attaching the session
// identity and mapping credential rejections to ErrUnauthorized.
func (c Client) doAPI(req *http.Request) (*http.Response, error) {
	if c.Identity != nil {
		c.Identity.Apply(req)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "error doing request to %s", req.URL)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return nil, errors.Wrapf(ErrUnauthorized, "request to %s", req.URL)
	}
	return resp, nil
}

// decodeResponse reads a capped response body and unmarshals it into out,
// treating any non-2xx status as an error carrying the API's message.
func (c Client) decodeResponse(resp *http.Response, out any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.Logger.Errorf("decodeResponse: error closing response body for %s, err: %v", resp.Request.URL, err)
		}
	}()
	body, err := io.ReadAll(http.MaxBytesReader(nil, resp.Body, 500*1024))
	if err != nil {
		return errors.Wrapf(err, "error reading response body from %s", resp.Request.URL)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &apiErr)
		if apiErr.Message != "" {
			return errors.Errorf("API error from %s, status: %s, message: %s", resp.Request.URL, resp.Status, apiErr.Message)
		}
		return errors.Errorf("API error from %s, status: %s, body: %s", resp.Request.URL, resp.Status, misc.BytesLimit(body, 500))
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(body, out), "error unmarshalling response body from %s, body: %s",
		resp.Request.URL, misc.BytesLimit(body, 500))
}
