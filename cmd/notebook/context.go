package main

import (
	"context"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notebook/internal/article"
	"notebook/internal/chunker"
	"notebook/internal/config"
	"notebook/internal/embedding"
	"notebook/internal/fetch"
	"notebook/internal/logging"
	"notebook/internal/service"
	"notebook/internal/store"
	"notebook/internal/summarizer"
	"notebook/internal/vectorstore"
	"notebook/internal/youtube"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.AppConfig
	logger     *zap.Logger
	configErr  error

	serviceOnce sync.Once
	store       *store.Store
	service     *service.NotebookService
	serviceErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.AppConfig, error) {
	c.configOnce.Do(func() {
		var (
			cfg *config.AppConfig
			err error
		)
		if path := strings.TrimSpace(*c.configFlag); path != "" {
			cfg, err = config.Load(path)
		} else {
			cfg, _, err = config.LoadDefault()
		}
		if err != nil {
			c.configErr = err
			return
		}
		logger, err := logging.New(cfg.Log)
		if err != nil {
			c.configErr = err
			return
		}
		c.config, c.logger = cfg, logger
	})
	return c.config, c.configErr
}

func (c *commandContext) log() *zap.Logger {
	return logging.OrNop(c.logger)
}

func (c *commandContext) httpClient(cfg *config.AppConfig) *fetch.Client {
	return fetch.New(cfg.Fetch.Timeout(), cfg.Fetch.MaxBytes, cfg.Fetch.UserAgent)
}

func newSummarizers(cfg *config.AppConfig) (*summarizer.FrequencySummarizer, *summarizer.TranscriptSummarizer) {
	freq := summarizer.NewFrequencySummarizer(
		summarizer.WithMinSentenceLength(cfg.Summarizer.MinSentenceLength),
		summarizer.WithDefaultMaxSentences(cfg.Summarizer.MaxSentences),
	)
	return freq, summarizer.NewTranscriptSummarizer(cfg.Transcript.MaxLength)
}

// ensureService opens the notebook database and assembles the service.
func (c *commandContext) ensureService(ctx context.Context) (*service.NotebookService, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.serviceOnce.Do(func() {
		st, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			c.serviceErr = err
			return
		}
		emb, err := embedding.New(cfg.Search.Embedder)
		if err != nil {
			_ = st.Close()
			c.serviceErr = err
			return
		}
		index, err := vectorstore.New(cfg.Search.VectorStore)
		if err != nil {
			_ = st.Close()
			c.serviceErr = err
			return
		}
		client := c.httpClient(cfg)
		freq, transcript := newSummarizers(cfg)
		c.store = st
		c.service = service.NewNotebookService(service.Dependencies{
			Store:       st,
			Articles:    article.NewFetcher(client, c.log()),
			Transcripts: youtube.NewTranscriptFetcher(cfg.Transcript, client, nil, c.log()),
			Summarizer:  freq,
			Transcript:  transcript,
			Chunker:     chunker.NewSentenceChunker(cfg.Search.SentencesPerChunk, cfg.Search.OverlapSentences),
			Embedder:    emb,
			Index:       index,
		}, service.Options{
			MaxSentences:        cfg.Summarizer.MaxSentences,
			TranscriptMaxLength: cfg.Transcript.MaxLength,
			TopK:                cfg.Search.TopK,
		}, c.log())
	})
	return c.service, c.serviceErr
}

func (c *commandContext) close() {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.log().Warn("close store", zap.Error(err))
		}
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// withEntry assembles the service and expands id to a full entry ID.
func (c *commandContext) withEntry(cmd *cobra.Command, id string) (*service.NotebookService, string, error) {
	svc, err := c.ensureService(cmd.Context())
	if err != nil {
		return nil, "", err
	}
	full, err := svc.ResolveID(cmd.Context(), id)
	if err != nil {
		return nil, "", err
	}
	return svc, full, nil
}
