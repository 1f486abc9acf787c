package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage wayfinder configuration",
		Long:  `View and manage wayfinder configuration.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show resolved configuration with source annotations",
		Long: `Show the fully resolved configuration with annotations indicating
where each value came from.

Configuration is loaded from multiple sources with the following precedence:
  1. Embedded defaults (built into binary)
  2. Global config (~/.config/wayfinder/config.yaml)
  3. Environment variables
  4. Local config (.wayfinder/config.yaml)
  5. CLI flags (highest precedence)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "# Wayfinder Configuration")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "## Sources (in order of precedence)")
			for _, src := range cfg.Sources() {
				fmt.Fprintf(out, "  - %s\n", src)
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "## Directories")
			fmt.Fprintf(out, "  Global config: %s\n", cfg.ConfigDir())
			if cfg.LocalDir() != "" {
				fmt.Fprintf(out, "  Local config:  %s\n", cfg.LocalDir())
			} else {
				fmt.Fprintf(out, "  Local config:  (none detected)\n")
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "## Store")
			fmt.Fprintf(out, "  backend: %s\n", cfg.Store.Backend)
			fmt.Fprintf(out, "  path:    %s\n", cfg.StorePath())
			fmt.Fprintln(out)

			fmt.Fprintln(out, "## Output")
			fmt.Fprintf(out, "  plain: %t\n", cfg.Output.Plain)
			fmt.Fprintf(out, "  debug: %t\n", cfg.Debug)
			return nil
		},
	})

	return cmd
}
