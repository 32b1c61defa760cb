package profile

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"

	"github.com/resticwrap/resticwrap/internal/restic"
)

// DefaultName is the profile used when none is selected on the command line.
const DefaultName = "default"

// Profile holds the configuration of one backup target. Scalar keys at the
// profile level are restic flags shared by every command; keys the launcher
// consumes itself are mapped to struct fields so they never reach restic.
type Profile struct {
	Name         string            `json:"name,omitempty" mapstructure:"-"`
	Description  string            `json:"description,omitempty" mapstructure:"description"`
	Inherit      string            `json:"inherit,omitempty" mapstructure:"inherit"`
	Initialize   bool              `json:"initialize,omitempty" mapstructure:"initialize"`
	Repository   string            `json:"repository,omitempty" mapstructure:"repository"`
	PasswordFile string            `json:"password-file,omitempty" mapstructure:"password-file"`
	CacheDir     string            `json:"cache-dir,omitempty" mapstructure:"cache-dir"`
	Quiet        bool              `json:"quiet,omitempty" mapstructure:"quiet"`
	Verbose      bool              `json:"verbose,omitempty" mapstructure:"verbose"`
	NoCache      bool              `json:"no-cache,omitempty" mapstructure:"no-cache"`
	Lock         string            `json:"lock,omitempty" mapstructure:"lock"`
	ForceLock    bool              `json:"force-inactive-lock,omitempty" mapstructure:"force-inactive-lock"`
	StatusFile   string            `json:"status-file,omitempty" mapstructure:"status-file"`
	RunBefore    []string          `json:"run-before,omitempty" mapstructure:"run-before"`
	RunAfter     []string          `json:"run-after,omitempty" mapstructure:"run-after"`
	Environment  map[string]string `json:"env,omitempty" mapstructure:"env"`
	Backup       *BackupSection    `json:"backup,omitempty" mapstructure:"backup"`
	Retention    *RetentionSection `json:"retention,omitempty" mapstructure:"retention"`
	OtherFlags   map[string]any    `json:"flags,omitempty" mapstructure:",remain"`

	host string
}

// GenericSection holds the flags of one command section. The schedule keys
// are parsed here so they never leak into the restic command line; nothing
// in this tool runs them.
type GenericSection struct {
	RunBefore          []string      `json:"run-before,omitempty" mapstructure:"run-before"`
	RunAfter           []string      `json:"run-after,omitempty" mapstructure:"run-after"`
	Schedule           []string      `json:"schedule,omitempty" mapstructure:"schedule"`
	SchedulePermission string        `json:"schedule-permission,omitempty" mapstructure:"schedule-permission"`
	SchedulePriority   string        `json:"schedule-priority,omitempty" mapstructure:"schedule-priority"`
	ScheduleLockWait   time.Duration `json:"schedule-lock-wait,omitempty" mapstructure:"schedule-lock-wait"`
	OtherFlags         map[string]any `json:"flags,omitempty" mapstructure:",remain"`
}

// BackupSection adds the keys of the backup command that need special
// treatment: sources are positional arguments, the file references are
// resolved against the configuration file directory.
type BackupSection struct {
	GenericSection `mapstructure:",squash"`
	Source         []string `json:"source,omitempty" mapstructure:"source"`
	Exclude        []string `json:"exclude,omitempty" mapstructure:"exclude"`
	Iexclude       []string `json:"iexclude,omitempty" mapstructure:"iexclude"`
	ExcludeFile    []string `json:"exclude-file,omitempty" mapstructure:"exclude-file"`
	FilesFrom      []string `json:"files-from,omitempty" mapstructure:"files-from"`
	Tag            []string `json:"tag,omitempty" mapstructure:"tag"`
}

// RetentionSection drives the forget run around a backup. Path and Tag
// accept a boolean (copy the values from the backup section) or explicit
// values.
type RetentionSection struct {
	GenericSection `mapstructure:",squash"`
	BeforeBackup   bool `json:"before-backup,omitempty" mapstructure:"before-backup"`
	AfterBackup    bool `json:"after-backup,omitempty" mapstructure:"after-backup"`
	Path           any  `json:"path,omitempty" mapstructure:"path"`
	Tag            any  `json:"tag,omitempty" mapstructure:"tag"`
}

func NewProfile(name string) *Profile {
	return &Profile{Name: name}
}

// SetRootPath resolves the file references of the profile against the
// directory of the configuration file.
func (p *Profile) SetRootPath(rootPath string) {
	p.PasswordFile = fixPath(p.PasswordFile, rootPath)
	p.Lock = fixPath(p.Lock, rootPath)
	if p.Backup != nil {
		p.Backup.ExcludeFile = fixPaths(p.Backup.ExcludeFile, rootPath)
		p.Backup.FilesFrom = fixPaths(p.Backup.FilesFrom, rootPath)
	}
}

// SetHost sets the hostname substituted when a section asks for
// "host = true".
func (p *Profile) SetHost(hostname string) {
	p.host = hostname
}

// GetEnvironment returns the environment variables of the profile as
// KEY=value pairs, keys upper-cased, in a stable order.
func (p *Profile) GetEnvironment() []string {
	env := make([]string, 0, len(p.Environment))
	for key, value := range p.Environment {
		env = append(env, strings.ToUpper(key)+"="+value)
	}
	sort.Strings(env)
	return env
}

// GetCommonFlags returns the flags shared by every restic command.
func (p *Profile) GetCommonFlags() *restic.Args {
	args := restic.NewArgs()
	p.addOtherFlags(args, p.OtherFlags)
	args.SetValue("repository", p.Repository)
	args.SetValue("password-file", p.PasswordFile)
	args.SetValue("cache-dir", p.CacheDir)
	args.SetValue("quiet", p.Quiet)
	args.SetValue("verbose", p.Verbose)
	args.SetValue("no-cache", p.NoCache)
	return args
}

// GetCommandFlags returns the flags for one restic command: the common
// flags overridden by the flags of the matching section.
func (p *Profile) GetCommandFlags(command string) *restic.Args {
	args := p.GetCommonFlags()
	switch command {
	case restic.CommandBackup:
		if p.Backup != nil {
			p.addOtherFlags(args, p.Backup.OtherFlags)
			args.SetValue("exclude", p.Backup.Exclude)
			args.SetValue("iexclude", p.Backup.Iexclude)
			args.SetValue("exclude-file", p.Backup.ExcludeFile)
			args.SetValue("files-from", p.Backup.FilesFrom)
			args.SetValue("tag", p.Backup.Tag)
		}
	default:
		if section := p.genericSection(command); section != nil {
			p.addOtherFlags(args, section.OtherFlags)
		}
	}
	return args
}

// GetRetentionFlags assembles the flags of the forget run driven by the
// retention section. Without an explicit path, the backup sources are
// copied so forget only touches the snapshots of this profile.
func (p *Profile) GetRetentionFlags() *restic.Args {
	args := p.GetCommonFlags()
	if p.Retention == nil {
		return args
	}
	p.addOtherFlags(args, p.Retention.OtherFlags)

	copySources := func() {
		if sources := p.GetBackupSource(); len(sources) > 0 {
			args.SetFlag("path", sources...)
		}
	}
	switch path := p.Retention.Path.(type) {
	case nil:
		copySources()
	case bool:
		if path {
			copySources()
		}
	default:
		args.SetValue("path", path)
	}

	switch tag := p.Retention.Tag.(type) {
	case nil:
		// tags are only copied on request
	case bool:
		if tag && p.Backup != nil && len(p.Backup.Tag) > 0 {
			args.SetFlag("tag", p.Backup.Tag...)
		}
	default:
		args.SetValue("tag", tag)
	}
	return args
}

// GetBackupSource expands globs in the configured backup sources. A
// pattern matching nothing is kept as-is and left for restic to report.
func (p *Profile) GetBackupSource() []string {
	if p.Backup == nil {
		return nil
	}
	sources := make([]string, 0, len(p.Backup.Source))
	for _, source := range p.Backup.Source {
		if matches, err := filepath.Glob(source); err == nil && len(matches) > 0 {
			sources = append(sources, matches...)
			continue
		}
		sources = append(sources, source)
	}
	return sources
}

// CommandHooks returns the shell commands wrapping one restic command:
// profile-level hooks run first before, and last after.
func (p *Profile) CommandHooks(command string) (before, after []string) {
	before = append(before, p.RunBefore...)

	var section *GenericSection
	switch command {
	case restic.CommandBackup:
		if p.Backup != nil {
			section = &p.Backup.GenericSection
		}
	default:
		section = p.genericSection(command)
	}
	if section != nil {
		before = append(before, section.RunBefore...)
		after = append(after, section.RunAfter...)
	}

	after = append(after, p.RunAfter...)
	return before, after
}

// genericSection decodes an untyped command section on demand. Sections
// are whatever profile keys hold a map; restic commands without special
// treatment all end up here.
func (p *Profile) genericSection(command string) *GenericSection {
	values, ok := p.OtherFlags[command].(map[string]any)
	if !ok {
		return nil
	}
	section := &GenericSection{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		// same decoder options as Config.unmarshalKey, so a schedule
		// duration string does not fail the whole section
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           section,
	})
	if err == nil {
		err = decoder.Decode(values)
	}
	if err != nil {
		log.Warn().Err(err).Str("profile", p.Name).Msgf("ignoring invalid %q section", command)
		return nil
	}
	return section
}

func (p *Profile) addOtherFlags(args *restic.Args, flags map[string]any) {
	for name, value := range flags {
		// maps are command sections, not flags
		if _, isSection := value.(map[string]any); isSection {
			continue
		}
		if name == "host" {
			p.setHostFlag(args, value)
			continue
		}
		args.SetValue(name, value)
	}
}

// setHostFlag translates "host = true" into the current hostname; any
// other value is used verbatim.
func (p *Profile) setHostFlag(args *restic.Args, value any) {
	if enabled, ok := value.(bool); ok {
		if enabled && p.host != "" {
			args.SetFlag("host", p.host)
		}
		return
	}
	args.SetValue("host", value)
}

func fixPath(value, rootPath string) string {
	if value == "" || rootPath == "" || filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(rootPath, value)
}

func fixPaths(values []string, rootPath string) []string {
	fixed := make([]string, len(values))
	for i, value := range values {
		fixed[i] = fixPath(value, rootPath)
	}
	return fixed
}
