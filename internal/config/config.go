package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StoreConfig locates the SQLite notebook database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// SummarizerConfig selects and configures the article summarizer.
type SummarizerConfig struct {
	Type              string `yaml:"type"`
	MaxSentences      int    `yaml:"max_sentences"`
	MinSentenceLength int    `yaml:"min_sentence_length"`
}

// YtDlpConfig locates the yt-dlp binary used to list caption tracks.
type YtDlpConfig struct {
	Name         string `yaml:"name"`
	Path         string `yaml:"path"`
	ShowWarnings bool   `yaml:"show_warnings"`
}

// TranscriptConfig configures video transcript retrieval and summaries.
type TranscriptConfig struct {
	MaxLength    int         `yaml:"max_length"`
	Languages    []string    `yaml:"languages"`
	PreferManual bool        `yaml:"prefer_manual"`
	YtDlp        YtDlpConfig `yaml:"yt_dlp"`
}

// FetchConfig configures outbound HTTP requests.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxBytes    int64  `yaml:"max_bytes"`
	UserAgent   string `yaml:"user_agent"`
}

// Timeout returns the request timeout as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// SearchConfig configures the notebook search index.
type SearchConfig struct {
	Embedder          string `yaml:"embedder"`
	VectorStore       string `yaml:"vector_store"`
	TopK              int    `yaml:"top_k"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// WikipediaConfig configures the Wikipedia research provider.
type WikipediaConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// SiteConfig describes a site whose search result page is scraped for
// research findings. SearchURL holds a single %s for the escaped query and
// results are read from Container elements, optionally with Class.
type SiteConfig struct {
	Name      string `yaml:"name"`
	Enabled   bool   `yaml:"enabled"`
	SearchURL string `yaml:"search_url"`
	Container string `yaml:"container"`
	Class     string `yaml:"class"`
	Limit     int    `yaml:"limit"`
}

// ResearchConfig lists the research providers.
type ResearchConfig struct {
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
	Sites     []SiteConfig    `yaml:"sites"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Log        LogConfig        `yaml:"log"`
	Store      StoreConfig      `yaml:"store"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Search     SearchConfig     `yaml:"search"`
	Research   ResearchConfig   `yaml:"research"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// ${VAR} references in the file are expanded from the environment.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault tries ./notebook.yaml first, then ~/.config/notebook/config.yaml.
// If neither exists, it writes defaults to ~/.config/notebook/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "notebook.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings no component can run with.
func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Summarizer.Type != "frequency" {
		return fmt.Errorf("unknown summarizer %q", c.Summarizer.Type)
	}
	if c.Search.Embedder != "tfidf" {
		return fmt.Errorf("unknown search embedder %q", c.Search.Embedder)
	}
	if c.Search.VectorStore != "memory" {
		return fmt.Errorf("unknown search vector store %q", c.Search.VectorStore)
	}
	if c.Summarizer.MaxSentences <= 0 {
		return errors.New("summarizer.max_sentences must be positive")
	}
	if c.Transcript.MaxLength <= 0 {
		return errors.New("transcript.max_length must be positive")
	}
	if c.Store.Path == "" {
		return errors.New("store.path is required")
	}
	for i, site := range c.Research.Sites {
		if site.Name == "" {
			return fmt.Errorf("research.sites[%d]: name is required", i)
		}
		if strings.Count(site.SearchURL, "%s") != 1 {
			return fmt.Errorf("research.sites[%d]: search_url must contain one %%s", i)
		}
		if site.Container == "" {
			return fmt.Errorf("research.sites[%d]: container is required", i)
		}
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "notebook", "config.yaml"), nil
}

func defaultStorePath() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".local", "share", "notebook", "notebook.db")
	}
	return "notebook.db"
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	return &AppConfig{
		Log:        LogConfig{Level: "info", Format: "console"},
		Store:      StoreConfig{Path: defaultStorePath()},
		Summarizer: SummarizerConfig{Type: "frequency", MaxSentences: 5, MinSentenceLength: 20},
		Transcript: TranscriptConfig{
			MaxLength:    500,
			Languages:    []string{"en"},
			PreferManual: true,
			YtDlp:        YtDlpConfig{Name: "yt-dlp"},
		},
		Fetch: FetchConfig{
			TimeoutSecs: 10,
			MaxBytes:    10_000_000,
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
		Search: SearchConfig{Embedder: "tfidf", VectorStore: "memory", TopK: 10, SentencesPerChunk: 3, OverlapSentences: 1},
		Research: ResearchConfig{
			Wikipedia: WikipediaConfig{Enabled: true, BaseURL: "https://en.wikipedia.org/api/rest_v1"},
			Sites: []SiteConfig{
				{Name: "Pew Research", Enabled: true, SearchURL: "https://www.pewresearch.org/?s=%s", Container: "article", Limit: 3},
				{Name: "FactCheck.org", Enabled: true, SearchURL: "https://www.factcheck.org/?s=%s", Container: "article", Class: "post", Limit: 5},
			},
		},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := Default()
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = def.Store.Path
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = def.Summarizer.Type
	}
	if cfg.Transcript.YtDlp.Name == "" {
		cfg.Transcript.YtDlp.Name = def.Transcript.YtDlp.Name
	}
	if cfg.Fetch.TimeoutSecs == 0 {
		cfg.Fetch.TimeoutSecs = def.Fetch.TimeoutSecs
	}
	if cfg.Fetch.MaxBytes == 0 {
		cfg.Fetch.MaxBytes = def.Fetch.MaxBytes
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = def.Fetch.UserAgent
	}
	if cfg.Search.Embedder == "" {
		cfg.Search.Embedder = def.Search.Embedder
	}
	if cfg.Search.VectorStore == "" {
		cfg.Search.VectorStore = def.Search.VectorStore
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = def.Search.TopK
	}
	if cfg.Search.SentencesPerChunk == 0 {
		cfg.Search.SentencesPerChunk = def.Search.SentencesPerChunk
	}
	if cfg.Research.Wikipedia.BaseURL == "" {
		cfg.Research.Wikipedia.BaseURL = def.Research.Wikipedia.BaseURL
	}
}
