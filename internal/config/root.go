package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/resticwrap/resticwrap/internal/filesearch"
	"github.com/resticwrap/resticwrap/internal/profile"
)

type Root struct {
	// Flags
	ConfigFile   string
	ProfileName  string
	Quiet        bool
	Verbose      bool
	DryRun       bool
	NoLock       bool
	ResticBinary string
	OutputFormat OutputFormat
}

func (c *Root) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&c.ConfigFile, "config", "c", "", "configuration file (default is profiles.conf in the search path)")
	cmd.PersistentFlags().StringVarP(&c.ProfileName, "name", "n", profile.DefaultName, "profile to run")
	cmd.PersistentFlags().BoolVarP(&c.Quiet, "quiet", "q", false, "display only warnings and errors")
	cmd.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "display debug information")
	cmd.PersistentFlags().BoolVar(&c.DryRun, "dry-run", false, "display the restic command instead of running it")
	cmd.PersistentFlags().BoolVar(&c.NoLock, "no-lock", false, "skip the profile lock file")
	cmd.PersistentFlags().StringVar(&c.ResticBinary, "restic-binary", "", "full path of the restic executable")
	cmd.PersistentFlags().VarP(&c.OutputFormat, "output", "o", "output format (json|yaml)")
}

// LoadConfiguration finds and parses the configuration file.
func (c *Root) LoadConfiguration() (*profile.Config, error) {
	configFile, err := filesearch.FindConfigurationFile(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", configFile).Msg("using configuration file")
	return profile.LoadFile(configFile)
}
