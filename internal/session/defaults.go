package session

import "github.com/rickgao/session-clock/internal/model"

// DefaultSessions returns the built-in four-session forex table (UTC hours).
func DefaultSessions() []model.Session {
	return []model.Session{
		{
			ID:            "sydney",
			Name:          "Sydney",
			Region:        "Asia-Pacific",
			Open:          22,
			Close:         7,
			Color:         "#00f2ff",
			CurrencyPairs: []string{"AUD/USD", "NZD/USD", "AUD/JPY"},
			Radius:        156,
		},
		{
			ID:            "tokyo",
			Name:          "Tokyo",
			Region:        "Asia",
			Open:          0,
			Close:         9,
			Color:         "#8b5cf6",
			CurrencyPairs: []string{"USD/JPY", "EUR/JPY", "GBP/JPY"},
			Radius:        144,
		},
		{
			ID:            "london",
			Name:          "London",
			Region:        "Europe",
			Open:          8,
			Close:         17,
			Color:         "#f59e0b",
			CurrencyPairs: []string{"EUR/USD", "GBP/USD", "EUR/GBP"},
			Radius:        156,
		},
		{
			ID:            "newyork",
			Name:          "New York",
			Region:        "North America",
			Open:          13,
			Close:         22,
			Color:         "#10b981",
			CurrencyPairs: []string{"USD/CAD", "EUR/USD", "GBP/USD"},
			Radius:        144,
		},
	}
}

// DefaultVolatility derives the London-New York overlap from the table.
func DefaultVolatility() Volatility {
	return Volatility{
		Mode:     VolatilityDerived,
		Name:     "London-NY Overlap",
		Sessions: []string{"london", "newyork"},
		Window:   model.Window{Start: 13, End: 17},
	}
}
