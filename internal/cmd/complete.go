package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/wayfinder/internal/catalog"
	"github.com/alexander-akhmetov/wayfinder/internal/record"
)

func newCompleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <user-id> <task-id>...",
		Short: "Record the data that completes one or more tasks",
		Long: `Record whatever makes the given catalog tasks complete for a user.

Flag tasks mark their flow finished, collection tasks get a placeholder
entry, and step tasks record their step id.

Examples:
  wayfinder complete alice business-plan
  wayfinder complete alice goals register-business`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]

			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			rec := record.New(e.store)
			for _, taskID := range args[1:] {
				if err := rec.Complete(userID, taskID); err != nil {
					return fmt.Errorf("failed to complete %s: %w", taskID, err)
				}
				task, phase, _ := catalog.Lookup(taskID)
				fmt.Fprintf(e.out, "✓ %s (%s)\n", task.Title, e.tracker.Phases()[phase].Name)
			}

			snap := e.tracker.ComputeProgress(userID)
			fmt.Fprintf(e.out, "Progress: %d%% (%d/%d tasks), current phase: %s\n",
				snap.OverallPercent, snap.CompletedTasks, snap.TotalTasks, snap.Current().Name)
			if snap.AllPhasesComplete() {
				fmt.Fprintln(e.out, "Journey complete.")
			}
			return nil
		},
	}
}
