package detect

import "strings"

// Extracted is what the live "extract details from URL" operation returns.
type Extracted struct {
	ProductName  string
	Store        string
	CurrentPrice *float64
	CurrencyCode *string
}

type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeClean
	OutcomeSuspiciousPrice
	OutcomeHeuristicFallback
)

// Prices outside this range are treated as extraction noise, not real prices.
const (
	minPlausiblePrice = 0
	maxPlausiblePrice = 100000
)

// Each outcome carries distinct user-visible text so the UI can tell a clean
// detection, a suspicious price, a URL guess, and a hard failure apart.
const (
	MessageClean      = "Product details detected."
	MessageSuspicious = "Product found, but the detected price looks implausible and was ignored. Enter the price manually."
	MessageFallback   = "Live detection was unavailable; details were guessed from the URL. Review before saving."
	MessageFailed     = "Could not detect any product details from that URL. Enter them manually."
)

type Result struct {
	Outcome      Outcome
	Name         string
	Store        string
	CurrentPrice *float64
	CurrencyCode *string
	Message      string
}

// Classify merges a live extraction result (possibly failed or empty) with the
// URL heuristic into one of the four outcome states.
func Classify(ext *Extracted, extErr error, rawURL string) Result {
	if ext != nil && extErr == nil {
		name := strings.TrimSpace(ext.ProductName)
		price, suspicious := filterPrice(ext.CurrentPrice)
		if name != "" || price != nil {
			r := Result{
				Outcome:      OutcomeClean,
				Name:         name,
				Store:        strings.TrimSpace(ext.Store),
				CurrentPrice: price,
				CurrencyCode: ext.CurrencyCode,
				Message:      MessageClean,
			}
			if suspicious {
				r.Outcome = OutcomeSuspiciousPrice
				r.Message = MessageSuspicious
			}
			return r
		}
	}

	if g := Guess(rawURL); g != nil {
		return Result{
			Outcome: OutcomeHeuristicFallback,
			Name:    g.Name,
			Store:   g.Store,
			Message: MessageFallback,
		}
	}
	return Result{Outcome: OutcomeFailed, Message: MessageFailed}
}

// filterPrice discards a well-formed but implausible price, reporting that it
// did so. The other extracted fields still apply.
func filterPrice(p *float64) (*float64, bool) {
	if p == nil {
		return nil, false
	}
	if *p <= minPlausiblePrice || *p > maxPlausiblePrice {
		return nil, true
	}
	return p, false
}
