// Package format holds the pure display-string helpers shared by the page
// controllers.
package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const Placeholder = "—"

var printer = message.NewPrinter(language.English)

// Price renders a price in the given ISO currency code, falling back to a
// bare two-decimal number when the code is unknown. A nil price renders the
// placeholder.
func Price(v *float64, code string) string {
	if v == nil {
		return Placeholder
	}
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return printer.Sprintf("%.2f", *v)
	}
	return printer.Sprint(currency.Symbol(unit.Amount(*v)))
}

// DateTime renders a timestamp for display; the zero time renders the
// placeholder.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format("Jan 2, 2006 15:04")
}

// Ago renders a compact relative time, e.g. "5m ago".
func Ago(t time.Time, now time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
