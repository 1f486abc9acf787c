// Package cmd implements the CLI commands for wayfinder.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexander-akhmetov/wayfinder/internal/catalog"
	"github.com/alexander-akhmetov/wayfinder/internal/check"
	"github.com/alexander-akhmetov/wayfinder/internal/config"
	"github.com/alexander-akhmetov/wayfinder/internal/debug"
	"github.com/alexander-akhmetov/wayfinder/internal/kv"
	"github.com/alexander-akhmetov/wayfinder/internal/progress"
)

// Version information set from main.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	store   string
	backend string
	debug   bool
	plain   bool
}

// env is what a command needs once configuration is resolved.
type env struct {
	cfg     *config.Config
	store   kv.Store
	tracker *progress.Tracker
	out     io.Writer
	plain   bool
	width   int
}

func (e *env) Close() error {
	return e.store.Close()
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "wayfinder",
		Short: "Track progress through the business onboarding journey",
		Long: `Wayfinder tracks a user's progress through the four onboarding phases
(Starting, Building, Growing, Maintaining). Each task's completion is derived
from per-user data in a key/value store; progress is recomputed on every read.`,
		Version:      fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.store, "store", "", "Path to the store file (default: state dir)")
	pf.StringVar(&flags.backend, "backend", "", "Store backend: memory, file or sqlite")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug logging to stderr")
	pf.BoolVar(&flags.plain, "plain", false, "Disable colors")

	root.AddCommand(newPhasesCmd(flags))
	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newCompleteCmd(flags))
	root.AddCommand(newMarkCmd(flags))
	root.AddCommand(newConfigCmd(flags))

	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// loadConfig resolves configuration and applies the global flags.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyCLIFlags(flags.backend, flags.store, flags.debug); err != nil {
		return nil, err
	}
	if flags.plain {
		cfg.Output.Plain = true
		cfg.Output.PlainSet = true
	}
	if cfg.Debug && !debug.Enabled() {
		debug.Enable()
	}
	return cfg, nil
}

// openEnv loads configuration and opens the configured store.
func openEnv(cmd *cobra.Command, flags *globalFlags) (*env, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	path := cfg.StorePath()
	store, err := kv.Open(cfg.Store.Backend, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	debug.Logf("opened %s store at %s", cfg.Store.Backend, path)

	out := cmd.OutOrStdout()
	plain, width := resolveOutput(out, cfg)
	return &env{
		cfg:     cfg,
		store:   store,
		tracker: progress.New(catalog.ListPhases(), check.NewEvaluator(store)),
		out:     out,
		plain:   plain,
		width:   width,
	}, nil
}

// resolveOutput decides whether out gets plain text and how wide it is.
// Anything that is not a terminal is plain.
func resolveOutput(out io.Writer, cfg *config.Config) (plain bool, width int) {
	plain, width = cfg.Output.Plain, 80
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return true, width
	}
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		width = w
	}
	return plain, width
}
