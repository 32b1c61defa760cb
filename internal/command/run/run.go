// Package run drives the whole launch pipeline: resolve the profile,
// acquire the lock, run the hooks and hand over to restic.
package run

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"github.com/resticwrap/resticwrap/internal/config"
	"github.com/resticwrap/resticwrap/internal/lock"
	"github.com/resticwrap/resticwrap/internal/prio"
	"github.com/resticwrap/resticwrap/internal/profile"
	"github.com/resticwrap/resticwrap/internal/restic"
	"github.com/resticwrap/resticwrap/internal/shell"
)

// Run executes a restic command for the profile, or the group of profiles,
// selected on the command line.
func Run(cfg *config.Run, out io.Writer, args []string) error {
	c, err := cfg.LoadConfiguration()
	if err != nil {
		return err
	}
	global, err := c.GetGlobalSection()
	if err != nil {
		return err
	}

	commandName := global.DefaultCommand
	var extraArgs []string
	if len(args) > 0 {
		commandName = args[0]
		extraArgs = args[1:]
	}
	if !restic.IsKnownCommand(commandName) {
		log.Debug().Str("command", commandName).Msg("command unknown to the launcher, passing it to restic anyway")
	}

	override := cfg.ResticBinary
	if override == "" {
		override = global.ResticBinary
	}
	binary, err := restic.FindBinary(override)
	if err != nil {
		return err
	}

	l := &launcher{
		cfg:       cfg,
		out:       out,
		config:    c,
		global:    global,
		binary:    binary,
		command:   commandName,
		extraArgs: extraArgs,
	}

	if c.HasProfileGroup(cfg.ProfileName) {
		return l.runGroup(cfg.ProfileName)
	}
	return l.runProfile(cfg.ProfileName)
}

type launcher struct {
	cfg       *config.Run
	out       io.Writer
	config    *profile.Config
	global    *profile.Global
	binary    string
	command   string
	extraArgs []string
}

// runGroup runs every profile of the group in order. With continue-on-error
// the failures are collected and reported at the end.
func (l *launcher) runGroup(name string) error {
	group, err := l.config.GetProfileGroup(name)
	if err != nil {
		return err
	}
	log.Info().Str("group", name).Strs("profiles", group.Profiles).Msg("running profile group")

	var groupErr error
	for _, profileName := range group.Profiles {
		if err := l.runProfile(profileName); err != nil {
			if !group.ContinueOnError {
				return err
			}
			log.Error().Err(err).Str("profile", profileName).Msg("profile failed, continuing with the rest of the group")
			groupErr = multierror.Append(groupErr, err)
		}
	}
	return groupErr
}

func (l *launcher) runProfile(name string) error {
	p, err := l.config.GetProfile(name)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return fmt.Errorf("profile %q not found in %s", name, l.config.GetConfigFile())
		}
		return err
	}
	if p.Repository == "" {
		return fmt.Errorf("profile %q does not define a repository", name)
	}

	commandLine := CommandLine(l.cfg.Root, l.global, p, l.binary, l.command, l.extraArgs)
	binary, arguments := commandLine[0], commandLine[1:]
	environment := p.GetEnvironment()

	if l.cfg.DryRun {
		fmt.Fprintln(l.out, strings.Join(commandLine, " "))
		return nil
	}

	profileLock, err := l.acquireLock(p)
	if err != nil {
		return err
	}
	if profileLock != nil {
		defer profileLock.Release()
	}

	if p.Initialize || l.global.Initialize {
		l.initializeRepository(p, environment)
	}

	before, after := p.CommandHooks(l.command)
	if err := runHooks(before, environment); err != nil {
		return err
	}

	if l.command == restic.CommandBackup && p.Retention != nil && p.Retention.BeforeBackup {
		if err := l.runRetention(p, environment, profileLock); err != nil {
			return err
		}
	}

	log.Info().Str("profile", name).Str("command", l.command).Msg("starting restic")
	cmd := shell.NewCommand(binary, arguments)
	cmd.Environ = environment
	if profileLock != nil {
		cmd.SetPID = profileLock.SetPID
	}
	if err := cmd.Run(); err != nil {
		return err
	}

	if l.command == restic.CommandBackup && p.Retention != nil && p.Retention.AfterBackup {
		if err := l.runRetention(p, environment, profileLock); err != nil {
			return err
		}
	}

	return runHooks(after, environment)
}

// CommandLine assembles the full restic invocation for a profile: the
// binary with its priority prefix, the command, the profile flags with the
// command-line overrides applied, the passthrough arguments and, for a
// backup, the sources.
func CommandLine(cfg *config.Root, global *profile.Global, p *profile.Profile, binary, commandName string, extraArgs []string) []string {
	args := p.GetCommandFlags(commandName)
	if cfg.Quiet {
		args.SetValue("quiet", true)
	}
	if cfg.Verbose {
		args.SetValue("verbose", true)
	}
	args.AddArgs(extraArgs...)
	if commandName == restic.CommandBackup {
		args.AddArgs(p.GetBackupSource()...)
	}
	wrapped, arguments := prio.Wrap(binary, append([]string{commandName}, args.GetAll()...), global)
	return append([]string{wrapped}, arguments...)
}

// acquireLock takes the profile lock file, forcing a stale lock out of the
// way when the profile allows it. A nil lock means the profile runs
// unlocked.
func (l *launcher) acquireLock(p *profile.Profile) (*lock.Lock, error) {
	if l.cfg.NoLock || p.Lock == "" {
		return nil, nil
	}
	runLock := lock.NewLock(p.Lock)
	if runLock.TryAcquire() {
		return runLock, nil
	}
	if p.ForceLock && runLock.IsStale() {
		log.Warn().Str("file", p.Lock).Msg("removing stale lock")
		if runLock.ForceAcquire() {
			return runLock, nil
		}
	}
	who, err := runLock.Who()
	if err != nil {
		return nil, fmt.Errorf("cannot read lock file %s: %w", p.Lock, err)
	}
	return nil, fmt.Errorf("another process is already running this profile: locked by %s", who)
}

// initializeRepository runs restic init, discarding the complaint restic
// prints when the repository already exists.
func (l *launcher) initializeRepository(p *profile.Profile, environment []string) {
	args := p.GetCommonFlags()
	binary, arguments := prio.Wrap(l.binary, append([]string{restic.CommandInit}, args.GetAll()...), l.global)

	cmd := shell.NewCommand(binary, arguments)
	cmd.Environ = environment
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		log.Debug().Err(err).Msg("repository initialization failed, the repository probably exists already")
	}
}

// runRetention runs restic forget with the flags of the retention section.
func (l *launcher) runRetention(p *profile.Profile, environment []string, profileLock *lock.Lock) error {
	args := p.GetRetentionFlags()
	binary, arguments := prio.Wrap(l.binary, append([]string{restic.CommandForget}, args.GetAll()...), l.global)

	log.Info().Str("profile", p.Name).Msg("cleaning up repository using retention information")
	cmd := shell.NewCommand(binary, arguments)
	cmd.Environ = environment
	if profileLock != nil {
		cmd.SetPID = profileLock.SetPID
	}
	return cmd.Run()
}

// runHooks runs each line through the shell, stopping at the first failure.
func runHooks(commands []string, environment []string) error {
	for _, commandLine := range commands {
		log.Debug().Str("command", commandLine).Msg("running hook")
		cmd := shell.NewShellCommand(commandLine)
		cmd.Environ = environment
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("hook %q: %w", commandLine, err)
		}
	}
	return nil
}
