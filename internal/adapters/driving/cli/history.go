package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/drivescope/drivescope-cli/internal/adapters/driven/storage/sqlite"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past audit runs",
	Long: `Lists past audit runs, newest first. With a run ID, shows the
subtrees that run skipped and why.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := sqlite.NewStore(historyDir())
	if err != nil {
		return fmt.Errorf("opening audit history: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	if len(args) > 0 {
		return printSkips(cmd, store, args[0])
	}

	runs, err := store.ListRuns(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No audit runs recorded.")
		return nil
	}

	for _, run := range runs {
		cmd.Printf("%s  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04"), run.ID)
		cmd.Printf("    root %s -> %s\n", run.RootID, run.OutputDir)
		cmd.Printf("    %d folders, %d files, %d pages, %s",
			run.Folders, run.Files, run.Pages, run.Status)
		if run.Skipped > 0 {
			cmd.Printf(" (%d skipped)", run.Skipped)
		}
		cmd.Printf("  took %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
		cmd.Println()
	}
	return nil
}

func printSkips(cmd *cobra.Command, store *sqlite.Store, runID string) error {
	skips, err := store.ListSkips(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("listing skips: %w", err)
	}

	if len(skips) == 0 {
		cmd.Printf("No skipped subtrees recorded for run %s.\n", runID)
		return nil
	}

	cmd.Printf("Skipped subtrees of run %s:\n", runID)
	for _, s := range skips {
		cmd.Printf("  %s: %s\n", s.Path, s.Reason)
	}
	return nil
}
