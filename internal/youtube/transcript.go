// Package youtube fetches caption transcripts for YouTube videos through
// yt-dlp's metadata dump and the json3 caption tracks it lists.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"notebook/internal/config"
	"notebook/internal/domain"
	"notebook/internal/fetch"
	"notebook/internal/logging"
)

var ErrNoTranscript = errors.New("no transcript available")

// TranscriptFetcher lists a video's caption tracks with yt-dlp and downloads
// the best json3 track.
type TranscriptFetcher struct {
	runner       Runner
	ytdlp        config.YtDlpConfig
	client       *fetch.Client
	languages    []string
	preferManual bool
	log          *zap.Logger
}

// NewTranscriptFetcher creates a fetcher. A nil runner uses ExecRunner.
func NewTranscriptFetcher(cfg config.TranscriptConfig, client *fetch.Client, runner Runner, log *zap.Logger) *TranscriptFetcher {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &TranscriptFetcher{
		runner:       runner,
		ytdlp:        cfg.YtDlp,
		client:       client,
		languages:    cfg.Languages,
		preferManual: cfg.PreferManual,
		log:          logging.OrNop(log),
	}
}

// Fetch returns the caption text of videoID. Videos without a json3 caption
// track yield ErrNoTranscript.
func (f *TranscriptFetcher) Fetch(ctx context.Context, videoID string) (*domain.Transcript, error) {
	if videoID == "" {
		return nil, ErrInvalidURL
	}
	info, warnings, err := dumpInfo(ctx, f.runner, f.ytdlp, WatchURL(videoID))
	for _, w := range warnings {
		f.log.Warn("yt-dlp", zap.String("video", videoID), zap.String("message", w))
	}
	if err != nil {
		return nil, err
	}

	lang, track, ok := f.pickTrack(info)
	if !ok {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNoTranscript)
	}
	data, err := f.client.Bytes(ctx, track.URL)
	if err != nil {
		return nil, fmt.Errorf("download captions for %s: %w", videoID, err)
	}
	text, err := parseJSON3(data)
	if err != nil {
		return nil, fmt.Errorf("captions for %s: %w", videoID, err)
	}
	if text == "" {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNoTranscript)
	}
	f.log.Debug("transcript fetched",
		zap.String("video", videoID),
		zap.String("language", lang),
		zap.Int("chars", len(text)))
	return &domain.Transcript{VideoID: videoID, Title: info.Title, Language: lang, Text: text}, nil
}

// pickTrack walks the caption sources in preference order and, inside each,
// the configured languages first and then any other language alphabetically.
func (f *TranscriptFetcher) pickTrack(info *videoInfo) (string, captionTrack, bool) {
	sources := []map[string][]captionTrack{info.Subtitles, info.AutomaticCaptions}
	if !f.preferManual {
		sources[0], sources[1] = sources[1], sources[0]
	}
	for _, src := range sources {
		for _, lang := range f.languageOrder(src) {
			for _, t := range src[lang] {
				if t.Ext == "json3" && t.URL != "" {
					return lang, t, true
				}
			}
		}
	}
	return "", captionTrack{}, false
}

func (f *TranscriptFetcher) languageOrder(src map[string][]captionTrack) []string {
	seen := make(map[string]bool, len(src))
	var order []string
	for _, want := range f.languages {
		want = strings.ToLower(want)
		var matches []string
		for lang := range src {
			l := strings.ToLower(lang)
			// "en" also matches regional and original-audio variants like "en-US"
			if !seen[lang] && (l == want || strings.HasPrefix(l, want+"-")) {
				matches = append(matches, lang)
			}
		}
		sort.Slice(matches, func(i, j int) bool {
			ei, ej := strings.EqualFold(matches[i], want), strings.EqualFold(matches[j], want)
			if ei != ej {
				return ei
			}
			return matches[i] < matches[j]
		})
		for _, lang := range matches {
			seen[lang] = true
		}
		order = append(order, matches...)
	}
	var rest []string
	for lang := range src {
		if !seen[lang] {
			rest = append(rest, lang)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}
