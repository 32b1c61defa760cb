package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resticwrap/resticwrap/internal/buildinfo"
	"github.com/resticwrap/resticwrap/internal/command/profiles"
	"github.com/resticwrap/resticwrap/internal/command/run"
	"github.com/resticwrap/resticwrap/internal/command/show"
	"github.com/resticwrap/resticwrap/internal/config"
	"github.com/resticwrap/resticwrap/internal/console"
)

func New() *cobra.Command {
	cfg := &config.Root{}

	cmd := &cobra.Command{
		Use:     "resticwrap [flags] [restic-command] [restic-args]",
		Short:   "Configuration profiles for restic",
		Long:    "resticwrap resolves a configuration profile, sets up the restic environment and runs the restic command with the flags from the profile.",
		Version: fmt.Sprintf("%v (%v) - %v", buildinfo.Version, buildinfo.GitCommit, buildinfo.BuildDate),

		// Don't print usage info automatically when errors occur.
		// Most of the time, the errors are not related to usage.
		SilenceUsage: true,

		// Anything that is not a subcommand is passed through to restic.
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			console.Setup(cfg.Verbose, cfg.Quiet)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.Run(&config.Run{Root: cfg}, cmd.OutOrStdout(), args)
		},
	}
	cfg.AddFlags(cmd)

	// Flags after the restic command belong to restic, not to resticwrap.
	cmd.Flags().SetInterspersed(false)

	// Subcommands
	cmd.AddCommand(
		profiles.New(cfg),
		show.New(cfg),
	)

	return cmd
}
