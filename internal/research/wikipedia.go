package research

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"notebook/internal/config"
	"notebook/internal/fetch"
)

const wikipediaExcerptRunes = 500

// WikipediaProvider reads page summaries from the Wikipedia REST API.
type WikipediaProvider struct {
	baseURL string
	client  *fetch.Client
}

type pageSummary struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// NewWikipediaProvider copies client so the API key header stays local to
// this provider.
func NewWikipediaProvider(cfg config.WikipediaConfig, client *fetch.Client) *WikipediaProvider {
	c := *client
	if cfg.APIKey != "" {
		c.Header = client.Header.Clone()
		if c.Header == nil {
			c.Header = http.Header{}
		}
		c.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}
	return &WikipediaProvider{baseURL: strings.TrimRight(cfg.BaseURL, "/"), client: &c}
}

func (p *WikipediaProvider) Name() string { return "Wikipedia" }

// Lookup treats query as a page title. Disambiguation pages yield nothing.
func (p *WikipediaProvider) Lookup(ctx context.Context, query string) ([]Finding, error) {
	title := strings.ReplaceAll(strings.TrimSpace(query), " ", "_")
	if title == "" {
		return nil, nil
	}
	var page pageSummary
	if err := p.client.JSON(ctx, p.baseURL+"/page/summary/"+url.PathEscape(title), &page); err != nil {
		return nil, err
	}
	if page.Type == "disambiguation" || strings.TrimSpace(page.Extract) == "" {
		return nil, nil
	}
	return []Finding{{
		Source:  p.Name(),
		Title:   page.Title,
		URL:     page.ContentURLs.Desktop.Page,
		Excerpt: cut(page.Extract, wikipediaExcerptRunes),
	}}, nil
}

func cut(s string, n int) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
