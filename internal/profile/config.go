// Package profile loads the configuration file and resolves profiles,
// groups and the global section.
package profile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	sectionGlobal = "global"
	sectionGroups = "groups"
)

// ErrNotFound is returned when the requested profile is not in the
// configuration.
var ErrNotFound = errors.New("profile not found")

// Config wraps a viper instance holding the whole configuration file.
// Every top-level section that is not "global" or "groups" is a profile.
type Config struct {
	viper      *viper.Viper
	configFile string
	groups     map[string]Group
}

// Info describes one profile for listing purposes.
type Info struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Sections    []string `json:"sections,omitempty"`
}

// LoadFile loads a configuration file. The format is taken from the file
// extension; a .conf file is read as TOML for compatibility with older
// configurations.
func LoadFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open configuration file for reading: %w", err)
	}
	defer file.Close()

	c, err := Load(file, formatFromExtension(configFile))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	c.configFile = configFile
	return c, nil
}

// Load reads a configuration from a reader. Mostly useful for unit tests.
func Load(input io.Reader, format string) (*Config, error) {
	if format == "conf" {
		format = "toml"
	}
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(input); err != nil {
		return nil, fmt.Errorf("cannot parse %s configuration: %w", format, err)
	}
	return &Config{viper: v}, nil
}

func formatFromExtension(configFile string) string {
	return strings.TrimPrefix(filepath.Ext(configFile), ".")
}

// GetConfigFile returns the file the configuration was loaded from.
func (c *Config) GetConfigFile() string {
	return c.configFile
}

// HasProfile returns true when the profile exists in the configuration.
func (c *Config) HasProfile(name string) bool {
	return name != sectionGlobal && name != sectionGroups && c.viper.IsSet(name)
}

// GetProfile resolves a profile, following its inheritance chain. File
// references in the profile are made relative to the configuration file
// directory, not the current working directory.
func (c *Config) GetProfile(name string) (*Profile, error) {
	profile, err := c.getProfile(name, map[string]bool{})
	if err != nil {
		return nil, err
	}
	if c.configFile != "" {
		profile.SetRootPath(filepath.Dir(c.configFile))
	}
	if hostname, err := os.Hostname(); err == nil {
		profile.SetHost(hostname)
	}
	return profile, nil
}

func (c *Config) getProfile(name string, visited map[string]bool) (*Profile, error) {
	if !c.HasProfile(name) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if visited[name] {
		return nil, fmt.Errorf("profile %q: inheritance loop detected", name)
	}
	visited[name] = true

	profile := NewProfile(name)
	if err := c.unmarshalKey(name, profile); err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	if profile.Inherit == "" {
		return profile, nil
	}

	parent, err := c.getProfile(profile.Inherit, visited)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("profile %q: parent profile %q was not found", name, profile.Inherit)
		}
		return nil, err
	}
	// it makes no sense to inherit a description
	parent.Description = ""
	// reload this profile on top of the inherited values
	if err := c.unmarshalKey(name, parent); err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	parent.Name = name
	return parent, nil
}

// GetGlobalSection returns the global section, filled with defaults when
// absent.
func (c *Config) GetGlobalSection() (*Global, error) {
	global := NewGlobal()
	if !c.viper.IsSet(sectionGlobal) {
		return global, nil
	}
	if err := c.unmarshalKey(sectionGlobal, global); err != nil {
		return nil, fmt.Errorf("global section: %w", err)
	}
	if global.DefaultCommand == "" {
		global.DefaultCommand = NewGlobal().DefaultCommand
	}
	return global, nil
}

// HasProfileGroup returns true when the group exists in the configuration.
func (c *Config) HasProfileGroup(name string) bool {
	groups, err := c.GetProfileGroups()
	if err != nil {
		return false
	}
	_, found := groups[name]
	return found
}

// GetProfileGroup returns the named group of profiles.
func (c *Config) GetProfileGroup(name string) (*Group, error) {
	groups, err := c.GetProfileGroups()
	if err != nil {
		return nil, err
	}
	group, found := groups[name]
	if !found {
		return nil, fmt.Errorf("group %q not found", name)
	}
	return &group, nil
}

// GetProfileGroups returns all groups from the configuration. A missing
// groups section returns an empty map.
func (c *Config) GetProfileGroups() (map[string]Group, error) {
	if c.groups != nil {
		return c.groups, nil
	}
	groups := map[string]Group{}
	if c.viper.IsSet(sectionGroups) {
		if err := c.unmarshalKey(sectionGroups, &groups); err != nil {
			return nil, fmt.Errorf("groups section: %w", err)
		}
	}
	c.groups = groups
	return c.groups, nil
}

// ProfileSections lists the profiles with the command sections defined
// inside each, in alphabetical order.
func (c *Config) ProfileSections() []Info {
	infos := make([]Info, 0)
	for name, rawValue := range c.viper.AllSettings() {
		if name == sectionGlobal || name == sectionGroups {
			continue
		}
		info := Info{Name: name}
		if values, ok := rawValue.(map[string]any); ok {
			for key, value := range values {
				if key == "description" {
					if description, ok := value.(string); ok {
						info.Description = description
						continue
					}
				}
				if _, ok := value.(map[string]any); ok {
					info.Sections = append(info.Sections, key)
				}
			}
		}
		sort.Strings(info.Sections)
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// unmarshalKey is a wrapper around viper.UnmarshalKey with the right
// decoder options: weakly typed input wraps single values into lists the
// way the configuration file syntax allows.
func (c *Config) unmarshalKey(key string, rawVal any) error {
	return c.viper.UnmarshalKey(key, rawVal,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			listOfProfilesToGroupHookFunc(),
		)),
		func(decoderConfig *mapstructure.DecoderConfig) {
			decoderConfig.WeaklyTypedInput = true
		},
	)
}

// listOfProfilesToGroupHookFunc accepts the short group form (a plain list
// of profile names) in place of the full group table.
func listOfProfilesToGroupHookFunc() mapstructure.DecodeHookFunc {
	groupType := reflect.TypeOf(Group{})
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to == groupType && from.Kind() == reflect.Slice {
			return map[string]any{"profiles": data}, nil
		}
		return data, nil
	}
}
