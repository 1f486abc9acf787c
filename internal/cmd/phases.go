package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/wayfinder/internal/catalog"
	"github.com/alexander-akhmetov/wayfinder/internal/render"
)

func newPhasesCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "phases",
		Short: "List the onboarding phases and their tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			plain, width := resolveOutput(out, cfg)

			phases := catalog.ListPhases()
			if asJSON {
				return render.JSON(out, phases, !plain)
			}
			return render.Catalog(out, phases, render.Options{Plain: plain, Width: width})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <phase-id>",
		Short: "Describe one phase",
		Long: `Describe one phase and its tasks.

Examples:
  wayfinder phases show starting
  wayfinder phases show maintaining --plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := catalog.Phase(args[0])
			if !ok {
				return fmt.Errorf("unknown phase %q", args[0])
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			plain, width := resolveOutput(out, cfg)
			return render.Markdown(out, render.PhaseMarkdown(p), width, plain)
		},
	})

	return cmd
}
