package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/wayfinder/internal/kv"
	"github.com/alexander-akhmetov/wayfinder/internal/render"
	"github.com/alexander-akhmetov/wayfinder/internal/tui"
)

func newStatusCmd(flags *globalFlags) *cobra.Command {
	var (
		asJSON    bool
		showTasks bool
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "status <user-id>",
		Short: "Show a user's progress",
		Long: `Show a user's progress through the onboarding phases.

Displays:
- Overall completion percentage and task counts
- Each phase with completed/total tasks
- The current phase (the first one not yet complete)

Examples:
  wayfinder status alice
  wayfinder status alice --tasks
  wayfinder status alice --json
  wayfinder status alice --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			if watch && asJSON {
				return fmt.Errorf("--watch and --json cannot be combined")
			}

			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if watch {
				if e.cfg.Store.Backend != kv.BackendFile {
					return fmt.Errorf("--watch needs the file backend, got %q", e.cfg.Store.Backend)
				}
				return tui.Watch(e.tracker, userID, e.cfg.StorePath(), showTasks)
			}

			snap := e.tracker.ComputeProgress(userID)
			if asJSON {
				return render.JSON(e.out, snap, !e.plain)
			}
			return render.Snapshot(e.out, e.tracker.Phases(), snap, render.Options{
				Plain: e.plain,
				Tasks: showTasks,
				Width: e.width,
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the snapshot as JSON")
	cmd.Flags().BoolVar(&showTasks, "tasks", false, "List each task under its phase")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render whenever the store file changes")

	return cmd
}
