// Package article turns a news or blog page into plain paragraph text.
package article

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"notebook/internal/domain"
	"notebook/internal/fetch"
	"notebook/internal/logging"
)

var (
	ErrInvalidURL = errors.New("invalid article url")
	ErrNoContent  = errors.New("no readable paragraphs")
)

var contentClassRe = regexp.MustCompile(`content|article|post`)

// IsValidURL reports whether s has both a scheme and a host.
func IsValidURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Fetcher downloads pages and extracts their article text.
type Fetcher struct {
	client *fetch.Client
	log    *zap.Logger
}

// NewFetcher creates a fetcher on top of client.
func NewFetcher(client *fetch.Client, log *zap.Logger) *Fetcher {
	return &Fetcher{client: client, log: logging.OrNop(log)}
}

// Fetch downloads rawURL and extracts its title and paragraph text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.Article, error) {
	if !IsValidURL(rawURL) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	resp, err := f.client.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	art, err := Extract(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", rawURL, err)
	}
	art.URL = rawURL
	f.log.Debug("article fetched",
		zap.String("url", rawURL),
		zap.String("title", art.Title),
		zap.Int("chars", len(art.Text)))
	return art, nil
}

// Extract parses an HTML page. The content root is the first <article>,
// else <main>, else a <div> whose class mentions content/article/post,
// else <body>; its non-empty <p> texts are joined with single spaces.
// Script, style and page chrome (nav, header, footer) are ignored.
func Extract(page []byte) (*domain.Article, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}
	removeChrome(doc)

	art := &domain.Article{Title: strings.Join(strings.Fields(textOf(findFirst(doc, isTag("title")))), " ")}

	root := findFirst(doc, isTag("article"))
	if root == nil {
		root = findFirst(doc, isTag("main"))
	}
	if root == nil {
		root = findFirst(doc, func(n *html.Node) bool {
			return isTag("div")(n) && contentClassRe.MatchString(attr(n, "class"))
		})
	}
	if root == nil {
		root = findFirst(doc, isTag("body"))
	}
	if root == nil {
		return nil, ErrNoContent
	}

	var paragraphs []string
	walk(root, func(n *html.Node) bool {
		if isTag("p")(n) {
			if t := strings.TrimSpace(textOf(n)); t != "" {
				paragraphs = append(paragraphs, t)
			}
			return false
		}
		return true
	})
	if len(paragraphs) == 0 {
		return nil, ErrNoContent
	}
	art.Text = strings.Join(paragraphs, " ")
	return art, nil
}

func removeChrome(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			switch c.Data {
			case "script", "style", "nav", "footer", "header", "noscript":
				n.RemoveChild(c)
				c = next
				continue
			}
		}
		removeChrome(c)
		c = next
	}
}

func isTag(name string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

// walk visits n depth-first; visit returns false to skip a node's children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(node *html.Node) bool {
		if found != nil {
			return false
		}
		if match(node) {
			found = node
			return false
		}
		return true
	})
	return found
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
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
