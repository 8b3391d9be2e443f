package rates

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rickgao/session-clock/internal/model"
)

var table = Table{
	Base: "USD",
	Rates: map[string]float64{
		"EUR": 0.92,
		"GBP": 0.8,
		"JPY": 150.25,
		"CAD": 1.35,
		"AUD": 1.5,
		"NZD": 0,
	},
}

func TestParsePair(t *testing.T) {
	tests := []struct {
		in          string
		base, quote string
		wantErr     bool
	}{
		{"EUR/USD", "EUR", "USD", false},
		{"eur/jpy", "EUR", "JPY", false},
		{"GBPUSD", "GBP", "USD", false},
		{"usd-cad", "USD", "CAD", false},
		{"EUR", "", "", true},
		{"EURO/USD", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			b, q, err := ParsePair(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPair) {
					t.Errorf("err = %v, want ErrInvalidPair", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePair failed: %v", err)
			}
			if b != tt.base || q != tt.quote {
				t.Errorf("got %s/%s, want %s/%s", b, q, tt.base, tt.quote)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		pair    string
		price   string
		method  string
		present bool
	}{
		{"USD/JPY", "150.250", MethodDirect, true},
		{"USD/CAD", "1.35000", MethodDirect, true},
		{"EUR/USD", "1.08696", MethodInverse, true},
		{"GBP/USD", "1.25000", MethodInverse, true},
		{"EUR/GBP", "0.86957", MethodCross, true},
		{"EUR/JPY", "163.315", MethodCross, true},
		{"AUD/JPY", "100.167", MethodCross, true},
		{"NZD/USD", Placeholder, "", false}, // zero rate
		{"CHF/USD", Placeholder, "", false}, // missing rate
		{"USD/USD", "1.00000", MethodIdentity, true},
		{"bogus", Placeholder, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.pair, func(t *testing.T) {
			q := table.Quote(tt.pair)
			if q.Price != tt.price {
				t.Errorf("Price = %q, want %q", q.Price, tt.price)
			}
			if q.Method != tt.method {
				t.Errorf("Method = %q, want %q", q.Method, tt.method)
			}
			if q.Present != tt.present {
				t.Errorf("Present = %v, want %v", q.Present, tt.present)
			}
		})
	}
}

func TestPrice_Unavailable(t *testing.T) {
	_, method, err := Table{}.Price("EUR/JPY")
	if !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("err = %v, want ErrRateUnavailable", err)
	}
	if method != MethodCross {
		t.Errorf("method = %q, want %q", method, MethodCross)
	}
}

func TestDecimals(t *testing.T) {
	if got := Decimals("USD/JPY"); got != 3 {
		t.Errorf("Decimals(USD/JPY) = %d, want 3", got)
	}
	if got := Decimals("JPY/USD"); got != 5 {
		t.Errorf("Decimals(JPY/USD) = %d, want 5", got)
	}
	if got := Decimals("EUR/USD"); got != 5 {
		t.Errorf("Decimals(EUR/USD) = %d, want 5", got)
	}
}

func TestPairsFor(t *testing.T) {
	sessions := []model.Session{
		{ID: "london", CurrencyPairs: []string{"EUR/USD", "GBP/USD", "EUR/GBP"}},
		{ID: "newyork", CurrencyPairs: []string{"USD/CAD", "EUR/USD", "GBP/USD"}},
	}
	want := []string{"EUR/USD", "GBP/USD", "EUR/GBP", "USD/CAD"}
	if got := PairsFor(sessions); !reflect.DeepEqual(got, want) {
		t.Errorf("PairsFor = %v, want %v", got, want)
	}

	quotes := table.Quotes(want)
	if len(quotes) != 4 || quotes[3].Pair != "USD/CAD" {
		t.Errorf("Quotes = %+v", quotes)
	}
}
