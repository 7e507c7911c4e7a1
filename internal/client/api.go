package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"pricepulse/internal/model"
)

// ItemPayload is the API's snake_case item shape, used for writes. Reads
// decode straight into model.RawItem and go through the normalizer.
type ItemPayload struct {
	UserID              string   `json:"user_id,omitempty"`
	ItemID              string   `json:"item_id,omitempty"`
	URL                 string   `json:"url"`
	ProductName         string   `json:"product_name,omitempty"`
	Store               string   `json:"store,omitempty"`
	TargetPrice         *float64 `json:"target_price,omitempty"`
	LastPrice           *float64 `json:"last_price,omitempty"`
	CurrencyCode        string   `json:"currency_code,omitempty"`
	Status              string   `json:"status,omitempty"`
	LastChecked         string   `json:"last_checked,omitempty"`
	CreatedAt           string   `json:"created_at,omitempty"`
	FrequencyMinutes    int      `json:"frequency_minutes,omitempty"`
	NotificationChannel string   `json:"notification_channel,omitempty"`
	AddedBy             string   `json:"added_by,omitempty"`
	NotificationEmail   string   `json:"notification_email,omitempty"`
	NotificationPhone   string   `json:"notification_phone,omitempty"`
	LastNotifiedAt      string   `json:"last_notified_at,omitempty"`
}

// EncodeItem maps a canonical WatchItem to the API shape: snake_case names,
// minute-based frequency, explicit status enum values.
func EncodeItem(i model.WatchItem) ItemPayload {
	p := ItemPayload{
		ItemID:            i.ID,
		URL:               i.URL,
		ProductName:       i.Name,
		Store:             i.Store,
		TargetPrice:       i.TargetPrice,
		LastPrice:         i.CurrentPrice,
		Status:            model.APIStatus(i.Status),
		FrequencyMinutes:  i.FrequencyMinutes,
		AddedBy:           i.AddedBy,
		NotificationEmail: i.NotificationEmail,
		NotificationPhone: i.NotificationPhone,
	}
	if i.Currency != nil {
		p.CurrencyCode = *i.Currency
	}
	if !i.LastChecked.IsZero() {
		p.LastChecked = i.LastChecked.UTC().Format(time.RFC3339)
	}
	if i.LastNotification != nil {
		p.LastNotifiedAt = i.LastNotification.UTC().Format(time.RFC3339)
	}
	return p
}

type NotificationPayload struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Message  string `json:"message"`
	Channel  string `json:"channel"`
	SentAt   string `json:"sent_at"`
	Read     bool   `json:"read"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

func (c Client) postJSON(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "error marshalling request body for %s", url)
	}
	req, err := newRequest(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "error creating request to %s", url)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.doAPI(req)
	if err != nil {
		return err
	}
	return c.decodeResponse(resp, out)
}

func (c Client) ItemList(ctx context.Context) ([]model.RawItem, error) {
	req, err := newRequest(ctx, http.MethodGet, c.BaseURL+"/api/items", nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating item list request")
	}
	resp, err := c.doAPI(req)
	if err != nil {
		return nil, err
	}
	var items []model.RawItem
	return items, c.decodeResponse(resp, &items)
}

func (c Client) ItemGet(ctx context.Context, itemID string) (*model.RawItem, error) {
	req, err := newRequest(ctx, http.MethodGet, c.BaseURL+"/api/items/"+url.PathEscape(itemID), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating item get request for ID: %s", itemID)
	}
	resp, err := c.doAPI(req)
	if err != nil {
		return nil, err
	}
	var item model.RawItem
	return &item, c.decodeResponse(resp, &item)
}

func (c Client) ItemCreate(ctx context.Context, p ItemPayload) (*model.RawItem, error) {
	var item model.RawItem
	return &item, c.postJSON(ctx, c.BaseURL+"/api/items", p, &item)
}

func (c Client) ItemUpdate(ctx context.Context, itemID string, p ItemPayload) (*model.RawItem, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrapf(err, "error marshalling item update for ID: %s", itemID)
	}
	req, err := newRequest(ctx, http.MethodPut, c.BaseURL+"/api/items/"+url.PathEscape(itemID), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "error creating item update request for ID: %s", itemID)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.doAPI(req)
	if err != nil {
		return nil, err
	}
	var item model.RawItem
	return &item, c.decodeResponse(resp, &item)
}

func (c Client) ItemDelete(ctx context.Context, itemID string) error {
	req, err := newRequest(ctx, http.MethodDelete, c.BaseURL+"/api/items/"+url.PathEscape(itemID), nil)
	if err != nil {
		return errors.Wrapf(err, "error creating item delete request for ID: %s", itemID)
	}
	resp, err := c.doAPI(req)
	if err != nil {
		return err
	}
	return c.decodeResponse(resp, nil)
}

func (c Client) NotificationList(ctx context.Context) ([]NotificationPayload, error) {
	req, err := newRequest(ctx, http.MethodGet, c.BaseURL+"/api/notifications", nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating notification list request")
	}
	resp, err := c.doAPI(req)
	if err != nil {
		return nil, err
	}
	var ns []NotificationPayload
	return ns, c.decodeResponse(resp, &ns)
}

func (c Client) NotificationMarkRead(ctx context.Context, notificationID string) error {
	return c.postJSON(ctx, c.BaseURL+"/api/notifications/"+url.PathEscape(notificationID)+"/read", struct{}{}, nil)
}

func (c Client) SignUp(ctx context.Context, username, password, email string) error {
	payload := map[string]string{"username": username, "password": password, "email": email}
	return c.postJSON(ctx, c.BaseURL+"/api/auth/signup", payload, nil)
}

func (c Client) SignIn(ctx context.Context, username, password string) (TokenResponse, error) {
	payload := map[string]string{"username": username, "password": password}
	var tokens TokenResponse
	return tokens, c.postJSON(ctx, c.BaseURL+"/api/auth/signin", payload, &tokens)
}

// DeviceRegister associates an FCM token with the current identity so push
// alerts can reach this device.
func (c Client) DeviceRegister(ctx context.Context, fcmToken string) error {
	return c.postJSON(ctx, c.BaseURL+"/api/devices", map[string]string{"fcm_token": fcmToken}, nil)
}

// TestExtract asks the API for best-effort product details for a URL.
func (c Client) TestExtract(ctx context.Context, rawURL string) (*ExtractResult, error) {
	var res ExtractResult
	if err := c.postJSON(ctx, c.BaseURL+"/api/test-extract", map[string]string{"url": rawURL}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
