package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/rickgao/session-clock/internal/model"
)

// DefaultHeadlineLimit caps the number of headlines kept per fetch.
const DefaultHeadlineLimit = 10

// removedMarker is the placeholder title the provider uses for withdrawn items.
const removedMarker = "[Removed]"

// Article is a single item in the headlines document.
type Article struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	Source      ArticleSource `json:"source"`
	PublishedAt string        `json:"publishedAt"`
}

// ArticleSource names the publisher of an article.
type ArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HeadlinesResponse is the top-headlines document.
type HeadlinesResponse struct {
	Status       string    `json:"status"`
	Code         string    `json:"code,omitempty"`
	Message      string    `json:"message,omitempty"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// HeadlineQuery filters the headline request.
type HeadlineQuery struct {
	Category string // e.g. "business"
	Language string // e.g. "en"
	Query    string // Free-text filter
	Limit    int    // Default: DefaultHeadlineLimit
}

func (q HeadlineQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Language != "" {
		v.Set("language", q.Language)
	}
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	v.Set("pageSize", strconv.Itoa(q.limit()))
	return v
}

func (q HeadlineQuery) limit() int {
	if q.Limit <= 0 {
		return DefaultHeadlineLimit
	}
	return q.Limit
}

// GetHeadlines fetches and cleans the latest headlines.
func (c *Client) GetHeadlines(ctx context.Context, q HeadlineQuery) ([]model.Headline, error) {
	var resp HeadlinesResponse
	if err := c.get(ctx, "/top-headlines", q.values(), &resp); err != nil {
		return nil, err
	}

	if resp.Status != "ok" {
		return nil, fmt.Errorf("%w: status %q %s", ErrMalformedResponse, resp.Status, resp.Message)
	}

	return CleanHeadlines(resp.Articles, q.limit()), nil
}

// CleanHeadlines normalizes articles into headlines: NFC text with collapsed
// whitespace, withdrawn and untitled items dropped, duplicates (by URL, or by
// title when the URL is empty) removed, capped at limit.
func CleanHeadlines(articles []Article, limit int) []model.Headline {
	out := make([]model.Headline, 0, min(len(articles), limit))
	seen := make(map[string]struct{}, len(articles))

	for _, a := range articles {
		if len(out) >= limit {
			break
		}

		title := cleanText(a.Title)
		if title == "" || title == removedMarker {
			continue
		}

		key := strings.TrimSpace(a.URL)
		if key == "" {
			key = "title:" + strings.ToLower(title)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		h := model.Headline{
			Title:       title,
			Description: cleanText(a.Description),
			URL:         strings.TrimSpace(a.URL),
			Source:      cleanText(a.Source.Name),
		}
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			h.PublishedAt = ts.UTC()
		}
		out = append(out, h)
	}

	return out
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
