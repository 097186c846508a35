package research

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"notebook/internal/config"
	"notebook/internal/fetch"
	"notebook/internal/textproc"
)

const defaultSiteLimit = 5

// SiteSearchProvider scrapes a site's own search result page.
type SiteSearchProvider struct {
	cfg    config.SiteConfig
	client *fetch.Client
}

func NewSiteSearchProvider(cfg config.SiteConfig, client *fetch.Client) *SiteSearchProvider {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultSiteLimit
	}
	return &SiteSearchProvider{cfg: cfg, client: client}
}

func (p *SiteSearchProvider) Name() string { return p.cfg.Name }

// Lookup reads up to Limit result containers. Each needs an h2 or h3 title
// and a link; the first paragraph becomes the excerpt.
func (p *SiteSearchProvider) Lookup(ctx context.Context, query string) ([]Finding, error) {
	searchURL := fmt.Sprintf(p.cfg.SearchURL, url.QueryEscape(strings.TrimSpace(query)))
	resp, err := p.client.Get(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parse %s results: %w", p.cfg.Name, err)
	}
	base, _ := url.Parse(resp.FinalURL)

	var out []Finding
	visit(doc, func(n *html.Node) bool {
		if len(out) == p.cfg.Limit {
			return false
		}
		if !p.isContainer(n) {
			return true
		}
		title := first(n, "h3", "h2")
		link := first(n, "a")
		if title == nil || link == nil {
			return false
		}
		out = append(out, Finding{
			Source:  p.cfg.Name,
			Title:   textproc.Normalize(text(title)),
			URL:     resolve(base, attr(link, "href")),
			Excerpt: textproc.Normalize(text(first(n, "p"))),
		})
		return false
	})
	return out, nil
}

func (p *SiteSearchProvider) isContainer(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != p.cfg.Container {
		return false
	}
	return p.cfg.Class == "" || slices.Contains(strings.Fields(attr(n, "class")), p.cfg.Class)
}

func resolve(base *url.URL, href string) string {
	if base == nil || href == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// visit walks n depth-first; fn returns false to skip a node's children.
func visit(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visit(c, fn)
	}
}

// first returns the first descendant whose tag is among tags, preferring
// earlier tags.
func first(n *html.Node, tags ...string) *html.Node {
	for _, tag := range tags {
		var found *html.Node
		visit(n, func(c *html.Node) bool {
			if found != nil {
				return false
			}
			if c != n && c.Type == html.ElementNode && c.Data == tag {
				found = c
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	visit(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
		}
		return true
	})
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
