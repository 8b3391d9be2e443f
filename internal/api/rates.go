package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rickgao/session-clock/internal/rates"
)

// RatesResponse is the latest-rates document.
type RatesResponse struct {
	Result             string             `json:"result"`
	ErrorType          string             `json:"error-type,omitempty"`
	BaseCode           string             `json:"base_code"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	Rates              map[string]float64 `json:"rates"`
}

// ToTable converts the response into a rate table stamped with fetchedAt.
func (r RatesResponse) ToTable(fetchedAt time.Time) rates.Table {
	t := rates.Table{
		Base:      strings.ToUpper(r.BaseCode),
		Rates:     make(map[string]float64, len(r.Rates)),
		FetchedAt: fetchedAt,
	}
	if r.TimeLastUpdateUnix > 0 {
		t.UpdatedAt = time.Unix(r.TimeLastUpdateUnix, 0).UTC()
	}
	for code, v := range r.Rates {
		t.Rates[strings.ToUpper(code)] = v
	}
	return t
}

// GetLatestRates fetches the rate table relative to base (e.g. "USD").
func (c *Client) GetLatestRates(ctx context.Context, base string) (rates.Table, error) {
	if base == "" {
		base = rates.DefaultBase
	}

	var resp RatesResponse
	if err := c.get(ctx, "/latest/"+url.PathEscape(strings.ToUpper(base)), nil, &resp); err != nil {
		return rates.Table{}, err
	}

	if resp.Result != "success" {
		return rates.Table{}, fmt.Errorf("%w: result %q %s", ErrMalformedResponse, resp.Result, resp.ErrorType)
	}
	if len(resp.Rates) == 0 {
		return rates.Table{}, fmt.Errorf("%w: empty rate table", ErrMalformedResponse)
	}

	return resp.ToTable(time.Now().UTC()), nil
}
