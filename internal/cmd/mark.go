package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/wayfinder/internal/kv"
	"github.com/alexander-akhmetov/wayfinder/internal/record"
)

func newMarkCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Write raw completion data",
		Long: `Write completion data directly, using the same keys the completion
checks read (<namespace>_<user-id>).`,
	}

	// run opens the store, applies fn and reports the written key.
	run := func(cmd *cobra.Command, key string, fn func(*record.Recorder) error) error {
		e, err := openEnv(cmd, flags)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := fn(record.New(e.store)); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "wrote %s\n", key)
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "step <user-id> <step-id>",
			Short: "Add a step to the user's completed steps",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, kv.Key(record.StepsNamespace, args[0]), func(r *record.Recorder) error {
					return r.MarkStepComplete(args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "flag <user-id> <namespace>",
			Short: "Mark a flow finished",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, kv.Key(args[1], args[0]), func(r *record.Recorder) error {
					return r.MarkFlowFinished(args[1], args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "entry <user-id> <namespace> <json>",
			Short: "Append a JSON entry to a collection",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, kv.Key(args[1], args[0]), func(r *record.Recorder) error {
					return r.AddEntry(args[1], args[0], args[2])
				})
			},
		},
		&cobra.Command{
			Use:   "reset <user-id> <namespace>",
			Short: "Clear a value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, kv.Key(args[1], args[0]), func(r *record.Recorder) error {
					return r.Reset(args[1], args[0])
				})
			},
		},
	)

	return cmd
}
