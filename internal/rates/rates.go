package rates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/session-clock/internal/model"
)

// Placeholder is shown when a price cannot be derived.
const Placeholder = "---"

// DefaultBase is the base currency of the rate feed.
const DefaultBase = "USD"

// Pricing methods.
const (
	MethodDirect   = "direct"
	MethodInverse  = "inverse"
	MethodCross    = "cross"
	MethodIdentity = "identity"
)

var (
	// ErrInvalidPair is returned for a symbol that is not BASE/QUOTE.
	ErrInvalidPair = errors.New("invalid currency pair")
	// ErrRateUnavailable is returned when a leg is missing or zero.
	ErrRateUnavailable = errors.New("rate unavailable")
)

// Table is a rate table keyed by ISO currency code.
type Table struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	UpdatedAt time.Time          `json:"updatedAt"` // Provider's last update
	FetchedAt time.Time          `json:"fetchedAt"`
}

// Empty reports whether the table holds no rates.
func (t Table) Empty() bool {
	return len(t.Rates) == 0
}

func (t Table) base() string {
	if t.Base == "" {
		return DefaultBase
	}
	return strings.ToUpper(t.Base)
}

// rate returns the base-relative rate for code. The base itself is 1.
func (t Table) rate(code string) (decimal.Decimal, bool) {
	if code == t.base() {
		return decimal.NewFromInt(1), true
	}
	v, ok := t.Rates[code]
	if !ok || v <= 0 {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(v), true
}

// ParsePair splits "EUR/USD" (or "EURUSD", "eur-usd") into upper-case codes.
func ParsePair(pair string) (base, quote string, err error) {
	p := strings.ToUpper(strings.TrimSpace(pair))
	for _, sep := range []string{"/", "-", "_"} {
		if b, q, ok := strings.Cut(p, sep); ok {
			base, quote = b, q
			break
		}
	}
	if base == "" && quote == "" && len(p) == 6 {
		base, quote = p[:3], p[3:]
	}
	if len(base) != 3 || len(quote) != 3 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPair, pair)
	}
	return base, quote, nil
}

// Price derives the BASE/QUOTE price and the method used.
func (t Table) Price(pair string) (decimal.Decimal, string, error) {
	base, quote, err := ParsePair(pair)
	if err != nil {
		return decimal.Decimal{}, "", err
	}

	tb := t.base()
	var method string
	switch {
	case base == quote:
		method = MethodIdentity
	case base == tb:
		method = MethodDirect
	case quote == tb:
		method = MethodInverse
	default:
		method = MethodCross
	}

	b, ok := t.rate(base)
	if !ok {
		return decimal.Decimal{}, method, fmt.Errorf("%w: %s", ErrRateUnavailable, base)
	}
	q, ok := t.rate(quote)
	if !ok {
		return decimal.Decimal{}, method, fmt.Errorf("%w: %s", ErrRateUnavailable, quote)
	}

	// price = rate[QUOTE] / rate[BASE]; reduces to rate[QUOTE] when BASE is
	// the table base and to 1/rate[BASE] when QUOTE is.
	return q.Div(b), method, nil
}

// Decimals returns the display precision for a pair: 3 for JPY-quoted, else 5.
func Decimals(pair string) int32 {
	_, quote, err := ParsePair(pair)
	if err == nil && quote == "JPY" {
		return 3
	}
	return 5
}

// Quote returns the formatted display quote for a pair. Any failure yields the
// placeholder.
func (t Table) Quote(pair string) model.PairQuote {
	q := model.PairQuote{Pair: pair, Price: Placeholder}
	price, method, err := t.Price(pair)
	if err != nil {
		return q
	}
	q.Price = price.StringFixed(Decimals(pair))
	q.Method = method
	q.Present = true
	return q
}

// Quotes formats every pair, in order.
func (t Table) Quotes(pairs []string) []model.PairQuote {
	out := make([]model.PairQuote, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, t.Quote(p))
	}
	return out
}

// PairsFor returns the union of the sessions' currency pairs in table order.
func PairsFor(sessions []model.Session) []string {
	seen := make(map[string]struct{})
	var pairs []string
	for _, s := range sessions {
		for _, p := range s.CurrencyPairs {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		}
	}
	return pairs
}
