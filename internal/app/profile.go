package app

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"pricepulse/internal/model"
	"pricepulse/internal/store"
)

type Profile struct {
	Store  store.Store
	Logger logger
}

// Validate checks the profile form. Contact names are not required to be
// unique; lookup takes the first match.
func (p Profile) Validate(prefs model.Preferences) map[string]string {
	problems := map[string]string{}
	if code := strings.TrimSpace(prefs.Currency); len(code) != 3 {
		problems["currency"] = "Currency must be a 3-letter code"
	}
	for _, c := range prefs.Contacts {
		if strings.TrimSpace(c.Name) == "" {
			problems["contacts"] = "Every contact needs a name"
			break
		}
	}
	return problems
}

// Save replaces the preferences wholesale on profile-form submit.
func (p Profile) Save(ctx context.Context, prefs model.Preferences) (map[string]string, error) {
	if problems := p.Validate(prefs); len(problems) > 0 {
		return problems, nil
	}
	prefs.Currency = strings.ToUpper(strings.TrimSpace(prefs.Currency))
	if err := p.Store.SavePreferences(ctx, prefs); err != nil {
		return nil, errors.Wrap(err, "error saving preferences")
	}
	return nil, nil
}
