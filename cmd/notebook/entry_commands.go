package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"notebook/internal/domain"
	"notebook/internal/service"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var req service.AddRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an article, video, note or quote to the notebook",
	}
	cmd.PersistentFlags().StringVar(&req.Title, "title", "", "Entry title (defaults to the page or video title)")
	cmd.PersistentFlags().StringVar(&req.Description, "description", "", "Short description")
	cmd.PersistentFlags().StringVar(&req.Topic, "topic", "", "Topic (see `notebook topics`)")
	cmd.PersistentFlags().StringVar(&req.Stance, "stance", "", "supporting, opposing or neutral")
	cmd.PersistentFlags().StringVar(&req.Tags, "tags", "", "Comma separated tags")

	withURL := func(use, short string, typ domain.EntryType) *cobra.Command {
		return &cobra.Command{
			Use:   use + " URL",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r := req
				r.Type, r.URL = typ, args[0]
				return addEntry(cmd, ctx, r)
			},
		}
	}
	withText := func(use, short string, typ domain.EntryType) *cobra.Command {
		return &cobra.Command{
			Use:   use + " TEXT...",
			Short: short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r := req
				r.Type, r.Text = typ, strings.Join(args, " ")
				return addEntry(cmd, ctx, r)
			},
		}
	}

	cmd.AddCommand(withURL("article", "Fetch and summarize a web article", domain.EntryArticle))
	cmd.AddCommand(withURL("video", "Fetch and summarize a YouTube transcript", domain.EntryYouTube))
	cmd.AddCommand(withText("note", "Save a free-text note", domain.EntryNote))
	cmd.AddCommand(withText("quote", "Save a quote", domain.EntryQuote))
	return cmd
}

func addEntry(cmd *cobra.Command, ctx *commandContext, req service.AddRequest) error {
	svc, err := ctx.ensureService(cmd.Context())
	if err != nil {
		return err
	}
	e, err := svc.Add(cmd.Context(), req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added %s %s: %s\n", e.Type, e.ID, e.Title)
	fmt.Fprintln(out, e.DisplaySummary())
	return nil
}

func newAnnotateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "annotate ID TEXT...",
		Short: "Attach a note to an entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, id, err := ctx.withEntry(cmd, args[0])
			if err != nil {
				return err
			}
			n, err := svc.Annotate(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added note %d to %s\n", n.ID, n.EntryID)
			return nil
		},
	}
}

func newRemoveNoteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-note NOTE_ID",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}
			svc, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.RemoveNote(cmd.Context(), noteID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed note %d\n", noteID)
			return nil
		},
	}
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an entry and its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, id, err := ctx.withEntry(cmd, args[0])
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}

func newResummarizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resummarize ID",
		Short: "Re-fetch an entry's source and replace its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, id, err := ctx.withEntry(cmd, args[0])
			if err != nil {
				return err
			}
			e, err := svc.Resummarize(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.DisplaySummary())
			return nil
		},
	}
}

func newTopicsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "topics",
		Short:       "List the notebook topics",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, len(domain.Topics))
			for i, t := range domain.Topics {
				rows[i] = []string{string(t.Topic), t.Label}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Topic", "Label"}, rows, nil))
			return nil
		},
	}
}
