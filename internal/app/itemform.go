package app

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"pricepulse/internal/client"
	"pricepulse/internal/detect"
	"pricepulse/internal/model"
	"pricepulse/internal/store"
)

// ItemForm drives the add/edit item page. API is nil in demo mode, which
// disables live detection and leaves the URL heuristic.
type ItemForm struct {
	Store  store.Store
	API    *client.Client
	Logger logger
	Now    func() time.Time
}

// ItemInput is the raw form submission. EditID is set when editing an
// existing record; Status carries the record's current status so a non-hit
// status survives the edit.
type ItemInput struct {
	EditID       string
	Name         string
	Store        string
	URL          string
	CurrentPrice string
	TargetPrice  string
	Currency     string
	AddedBy      string
	Frequency    string
	Status       string
}

type SubmitResult struct {
	Item    model.WatchItem
	Created bool

	// ReloadRequired signals that the view must re-render from
	// server-confirmed state instead of trusting the optimistic local object.
	ReloadRequired bool
}

// Validate blocks submission on missing or non-numeric fields. The returned
// map is keyed by field name and empty on success.
func (f ItemForm) Validate(in ItemInput) map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		problems["name"] = "Name is required"
	}
	if strings.TrimSpace(in.URL) == "" {
		problems["url"] = "URL is required"
	}
	checkPrice(problems, "currentPrice", "Current price", in.CurrentPrice)
	checkPrice(problems, "targetPrice", "Target price", in.TargetPrice)
	return problems
}

func checkPrice(problems map[string]string, field, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		problems[field] = label + " is required"
		return
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		problems[field] = label + " must be a number"
	}
}

// Detect resolves product details for the URL: the live extraction service
// when available, the URL heuristic otherwise or on failure.
func (f ItemForm) Detect(ctx context.Context, rawURL string) detect.Result {
	if f.API == nil {
		return detect.Classify(nil, errors.New("live detection is unavailable in demo mode"), rawURL)
	}
	res, err := f.API.TestExtract(ctx, rawURL)
	if err != nil {
		f.Logger.Warnf("ItemForm: live detection failed for URL: %s, err: %v", rawURL, err)
		return detect.Classify(nil, err, rawURL)
	}
	return detect.Classify(&detect.Extracted{
		ProductName:  res.ProductName,
		Store:        res.Store,
		CurrentPrice: res.CurrentPrice,
		CurrencyCode: res.CurrencyCode,
	}, nil, rawURL)
}

// Submit validates the input and persists the item: an edit replaces the
// existing record in place preserving its identifier, a create prepends a new
// record. Write failures abort the mutation; nothing is applied locally that
// the durable owner did not confirm.
func (f ItemForm) Submit(ctx context.Context, in ItemInput, prefs model.Preferences) (SubmitResult, map[string]string, error) {
	if problems := f.Validate(in); len(problems) > 0 {
		return SubmitResult{}, problems, nil
	}

	currentPrice, _ := strconv.ParseFloat(strings.TrimSpace(in.CurrentPrice), 64)
	targetPrice, _ := strconv.ParseFloat(strings.TrimSpace(in.TargetPrice), 64)

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = prefs.Currency
	}

	contact := prefs.ResolveContact(in.AddedBy)

	frequency := strings.TrimSpace(in.Frequency)
	if frequency == "" {
		frequency = model.FrequencyLabel(model.DefaultFrequencyMinutes)
	}

	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}

	item := model.WatchItem{
		ID:                in.EditID,
		Name:              strings.TrimSpace(in.Name),
		Store:             strings.TrimSpace(in.Store),
		URL:               strings.TrimSpace(in.URL),
		CurrentPrice:      &currentPrice,
		TargetPrice:       &targetPrice,
		Currency:          &currency,
		Status:            in.Status,
		LastChecked:       now,
		AddedBy:           contact.Name,
		NotificationEmail: contact.Email,
		NotificationPhone: contact.Phone,
		Frequency:         frequency,
		FrequencyMinutes:  model.FrequencyMinutes(frequency),
	}
	if item.Store == "" {
		item.Store = model.StoreFromURL(item.URL)
	}
	item.ApplyStatusRule()

	var (
		saved model.WatchItem
		err   error
	)
	if in.EditID != "" {
		saved, err = f.Store.UpdateItem(ctx, item)
	} else {
		saved, err = f.Store.CreateItem(ctx, item)
	}
	if err != nil {
		return SubmitResult{}, nil, errors.Wrap(err, "error saving item")
	}
	return SubmitResult{
		Item:           saved,
		Created:        in.EditID == "",
		ReloadRequired: f.Store.Remote(),
	}, nil, nil
}
