package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"notebook/internal/config"
)

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// captionTrack is one downloadable caption file listed by yt-dlp.
type captionTrack struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// videoInfo is the subset of `yt-dlp -j` output we read. Subtitles holds the
// uploader's tracks and AutomaticCaptions the speech-recognition ones, both
// keyed by language code.
type videoInfo struct {
	ID                string                    `json:"id"`
	Title             string                    `json:"title"`
	Subtitles         map[string][]captionTrack `json:"subtitles"`
	AutomaticCaptions map[string][]captionTrack `json:"automatic_captions"`
}

func buildArgs(cfg config.YtDlpConfig, url string) []string {
	args := []string{"--no-config", "-j", "--skip-download", "--no-progress", "--no-update"}
	if !cfg.ShowWarnings {
		args = append(args, "--no-warnings")
	}
	return append(args, url)
}

// dumpInfo runs yt-dlp for url and decodes its JSON line. Non-JSON lines are
// warnings and are returned separately.
func dumpInfo(ctx context.Context, r Runner, cfg config.YtDlpConfig, url string) (*videoInfo, []string, error) {
	exe := cfg.Path
	if exe == "" {
		exe = cfg.Name
	}
	out, err := r.Run(ctx, exe, buildArgs(cfg, url)...)
	if err != nil {
		return nil, nil, fmt.Errorf("yt-dlp %s: %w: %s", url, err, strings.TrimSpace(string(out)))
	}

	var jsonLine string
	var warnings []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			jsonLine = line
		} else {
			warnings = append(warnings, line)
		}
	}
	if jsonLine == "" {
		return nil, warnings, fmt.Errorf("yt-dlp %s: no JSON in output", url)
	}
	var info videoInfo
	if err := json.Unmarshal([]byte(jsonLine), &info); err != nil {
		return nil, warnings, fmt.Errorf("yt-dlp %s: decode: %w", url, err)
	}
	return &info, warnings, nil
}
