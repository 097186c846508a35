// Package research gathers background findings for a query from public
// reference sources.
package research

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"notebook/internal/config"
	"notebook/internal/fetch"
	"notebook/internal/logging"
)

// Finding is one reference result.
type Finding struct {
	Source  string
	Title   string
	URL     string
	Excerpt string
}

// Provider looks a query up in one source.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, query string) ([]Finding, error)
}

// Gather queries providers one after another. A failing provider is logged
// and skipped. Findings are merged in provider order and de-duplicated by URL.
// Only cancellation of ctx is returned as an error.
func Gather(ctx context.Context, log *zap.Logger, query string, providers ...Provider) ([]Finding, error) {
	log = logging.OrNop(log)
	var out []Finding
	seen := make(map[string]struct{})
	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		found, err := p.Lookup(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			log.Warn("research provider failed", zap.String("provider", p.Name()), zap.Error(err))
			continue
		}
		log.Debug("research provider done", zap.String("provider", p.Name()), zap.Int("findings", len(found)))
		for _, f := range found {
			key := strings.TrimRight(f.URL, "/")
			if key != "" {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			out = append(out, f)
		}
	}
	return out, nil
}

// FromConfig builds the enabled providers in a fixed order: Wikipedia first,
// then the configured sites.
func FromConfig(cfg config.ResearchConfig, client *fetch.Client) []Provider {
	var providers []Provider
	if cfg.Wikipedia.Enabled {
		providers = append(providers, NewWikipediaProvider(cfg.Wikipedia, client))
	}
	for _, site := range cfg.Sites {
		if site.Enabled {
			providers = append(providers, NewSiteSearchProvider(site, client))
		}
	}
	return providers
}
