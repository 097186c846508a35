package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"notebook/internal/domain"
)

const maxParallelFiles = 4

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var maxSentences int
	var transcript bool

	cmd := &cobra.Command{
		Use:   "summarize [files...]",
		Short: "Summarize text files, or stdin when no file is given",
		Long: "Summarize prints an extractive summary of each input. Articles keep their\n" +
			"highest scoring sentences; --transcript keeps leading sentences up to a\n" +
			"character budget instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			freq, trunc := newSummarizers(cfg)
			var sum domain.Summarizer = freq
			limit := maxSentences
			if transcript {
				sum = trunc
				limit = cfg.Transcript.MaxLength
				if cmd.Flags().Changed("max") {
					limit = maxSentences
				}
			}

			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), summaryOrPlaceholder(sum, string(data), limit))
				return nil
			}

			summaries := make([]string, len(args))
			g, gctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxParallelFiles)
			for i, path := range args {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					data, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					summaries[i] = summaryOrPlaceholder(sum, string(data), limit)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, path := range args {
				if len(args) > 1 {
					fmt.Fprintf(out, "== %s ==\n", path)
				}
				fmt.Fprintln(out, summaries[i])
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&maxSentences, "max", "n", 0, "Maximum sentences (or characters with --transcript); 0 uses the configured default")
	cmd.Flags().BoolVar(&transcript, "transcript", false, "Treat input as a caption transcript and truncate instead of ranking")
	return cmd
}

func summaryOrPlaceholder(sum domain.Summarizer, text string, limit int) string {
	if s, ok := sum.Summarize(text, limit); ok {
		return s
	}
	return domain.NoSummaryMessage
}
