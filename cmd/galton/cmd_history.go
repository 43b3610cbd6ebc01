package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/galtonlab/galton/internal/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List or inspect recorded experiment runs",
		Long: `Without arguments, list the most recent recorded runs. With a run id,
print that run's full slot distribution.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")
			out := cmd.OutOrStdout()

			galtonDir := filepath.Join(root, ".galton")
			if _, err := os.Stat(filepath.Join(galtonDir, "history.db")); os.IsNotExist(err) {
				if jsonOut {
					json.NewEncoder(out).Encode(map[string]any{"runs": []history.Run{}, "count": 0})
				} else {
					fmt.Fprintln(out, "No runs recorded yet.")
				}
				return nil
			}

			store, err := history.NewStore(galtonDir)
			if err != nil {
				return fmt.Errorf("opening history: %w", err)
			}
			defer store.Close()

			ctx := cmd.Context()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid run id: %s", args[0])
				}
				run, err := store.GetRun(ctx, id)
				if err != nil {
					return fmt.Errorf("loading run %d: %w", id, err)
				}
				if run == nil {
					return fmt.Errorf("run not found: %d", id)
				}
				if jsonOut {
					json.NewEncoder(out).Encode(run)
				} else {
					printRun(out, *run)
				}
				return nil
			}

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return fmt.Errorf("listing runs: %w", err)
			}

			if jsonOut {
				json.NewEncoder(out).Encode(map[string]any{"runs": runs, "count": len(runs)})
				return nil
			}

			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}
			fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(runs))
			for _, run := range runs {
				fmt.Fprintf(out, "%d. [%s] slots=%d beans=%d mode=%s seed=%d avg=%.3f\n",
					run.ID, run.CreatedAt.Format(time.RFC3339), run.SlotCount,
					run.BeanCount, run.Mode, run.Seed, run.Average)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 = all)")

	return cmd
}

func printRun(out io.Writer, run history.Run) {
	fmt.Fprintf(out, "Run: %d\n", run.ID)
	fmt.Fprintf(out, "Recorded: %s\n", run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Slots: %d\n", run.SlotCount)
	fmt.Fprintf(out, "Beans: %d\n", run.BeanCount)
	fmt.Fprintf(out, "Mode: %s\n", run.Mode)
	fmt.Fprintf(out, "Seed: %d\n", run.Seed)
	fmt.Fprintf(out, "Average slot: %.3f\n", run.Average)
	fmt.Fprintln(out, "Slot bean counts:")
	for i, c := range run.SlotCounts {
		fmt.Fprintf(out, "  slot %d: %d\n", i, c)
	}
}
