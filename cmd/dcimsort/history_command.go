package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dcimsort/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sorting runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRunTable(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of runs to show (0 for all)")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and the directories it created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := findRun(cmd, store, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			dirs, err := store.Directories(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Status", runStatusKind(run.Status), run.Status, colorize))
			fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Operation:", run.Operation)
			fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Source:", run.Source)
			fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Target:", run.Target)
			if run.Policy != "" {
				fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Policy:", run.Policy)
			}
			fmt.Fprintf(out, "%s%-*s %s (%s)\n", statusIndent, statusLabelWidth, "Started:",
				run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.Duration().Round(time.Millisecond))
			if run.Error != "" {
				fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Error:", run.Error)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Sorted", "Skipped", "Duplicates", "Errors", "Directories"},
				[][]string{{count(run.Success), count(run.Skipped), count(run.Duplicate), count(run.Errored), count(run.Directories)}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			if len(dirs) > 0 {
				for _, line := range renderSectionHeader("Directories", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, dir := range dirs {
					fmt.Fprintln(out, dir)
				}
			}
			return nil
		},
	}
}

// findRun accepts a full run id or the short prefix printed after a run.
func findRun(cmd *cobra.Command, store *history.Store, id string) (*history.Run, error) {
	run, err := store.GetRun(cmd.Context(), id)
	if err == nil {
		return run, nil
	}
	runs, listErr := store.ListRuns(cmd.Context(), 0)
	if listErr != nil {
		return nil, err
	}
	var match *history.Run
	for i := range runs {
		if strings.HasPrefix(runs[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("run id %q is ambiguous", id)
			}
			match = &runs[i]
		}
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}

func renderRunTable(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			humanize.Time(run.StartedAt),
			run.Operation,
			run.Target,
			count(run.Success + run.Skipped + run.Errored),
			count(run.Success),
			count(run.Duplicate),
			count(run.Errored),
			run.Status,
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Operation", "Target", "Files", "Sorted", "Duplicates", "Errors", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}
