package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"notebook/internal/research"
	"notebook/internal/textproc"
	"notebook/internal/tui"
)

const excerptWidth = 72

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search titles, summaries and notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			hits, err := svc.Search(cmd.Context(), strings.Join(args, " "), topK)
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching entries.")
				return nil
			}
			rows := make([][]string, len(hits))
			for i, h := range hits {
				rows[i] = []string{
					fmt.Sprintf("%.3f", h.Score),
					shortID(h.Entry.ID),
					truncate(h.Entry.Title, titleWidth),
					truncate(h.Chunk.Text, excerptWidth),
				}
			}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Score", "ID", "Title", "Match"}, rows, aligns))
			return nil
		},
	}
	cmd.Flags().IntVarP(&topK, "top", "k", 0, "Maximum entries to return; 0 uses the configured default")
	return cmd
}

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and search the notebook interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			m := tui.New(cmd.Context(), svc, cfg.Search.TopK)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

func newResearchCommand(ctx *commandContext) *cobra.Command {
	var summarize bool

	cmd := &cobra.Command{
		Use:   "research QUERY...",
		Short: "Look a topic up in reference sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			providers := research.FromConfig(cfg.Research, ctx.httpClient(cfg))
			if len(providers) == 0 {
				return fmt.Errorf("no research providers enabled")
			}
			findings, err := research.Gather(cmd.Context(), ctx.log(), strings.Join(args, " "), providers...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(findings) == 0 {
				fmt.Fprintln(out, "No findings.")
				return nil
			}
			freq, _ := newSummarizers(cfg)
			for _, f := range findings {
				fmt.Fprintf(out, "[%s] %s\n", f.Source, textproc.Normalize(f.Title))
				if f.URL != "" {
					fmt.Fprintf(out, "  %s\n", f.URL)
				}
				excerpt := f.Excerpt
				if summarize {
					if s, ok := freq.Summarize(excerpt, 2); ok {
						excerpt = s
					}
				}
				if excerpt != "" {
					fmt.Fprintf(out, "  %s\n", excerpt)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&summarize, "summarize", false, "Condense long excerpts to their two best sentences")
	return cmd
}
