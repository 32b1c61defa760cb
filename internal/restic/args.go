// Package restic knows how to turn configuration values into a restic
// command line, and where to find the restic executable.
package restic

import (
	"fmt"
	"sort"
	"strconv"
)

// Replaced flag names kept for configuration compatibility.
var legacyFlags = map[string]string{
	"repository": "repo",
}

// Args accumulates the flags and positional arguments of one restic
// invocation. Flags are rendered in alphabetical order so the resulting
// command line is deterministic; positional arguments keep their insertion
// order and always come last.
type Args struct {
	flags      map[string][]string
	positional []string
}

func NewArgs() *Args {
	return &Args{flags: map[string][]string{}}
}

// SetFlag records a flag with its values, replacing any previous ones. A
// flag without values renders as a naked flag (--quiet).
func (a *Args) SetFlag(name string, values ...string) {
	if alias, ok := legacyFlags[name]; ok {
		name = alias
	}
	a.flags[name] = values
}

// SetValue records a flag from a raw configuration value, applying the
// conversion rules: false, empty strings and empty lists drop the flag,
// true becomes a naked flag, lists repeat it.
func (a *Args) SetValue(name string, value any) {
	values, ok := stringifyValue(value)
	if !ok {
		return
	}
	a.SetFlag(name, values...)
}

// AddArgs appends positional arguments.
func (a *Args) AddArgs(args ...string) {
	a.positional = append(a.positional, args...)
}

// HasFlag indicates whether the flag was recorded.
func (a *Args) HasFlag(name string) bool {
	if alias, ok := legacyFlags[name]; ok {
		name = alias
	}
	_, found := a.flags[name]
	return found
}

// ToMap exposes the recorded flag values keyed by name.
func (a *Args) ToMap() map[string][]string {
	flags := make(map[string][]string, len(a.flags))
	for name, values := range a.flags {
		flags[name] = append(make([]string, 0, len(values)), values...)
	}
	return flags
}

// GetAll renders the full argument list.
func (a *Args) GetAll() []string {
	names := make([]string, 0, len(a.flags))
	for name := range a.flags {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]string, 0, len(a.flags)*2+len(a.positional))
	for _, name := range names {
		flag := "--" + name
		if len(name) == 1 {
			flag = "-" + name
		}
		values := a.flags[name]
		if len(values) == 0 {
			args = append(args, flag)
			continue
		}
		for _, value := range values {
			args = append(args, flag, value)
		}
	}
	return append(args, a.positional...)
}

// stringifyValue converts a configuration value into flag values. It
// returns false when the flag must be omitted entirely.
func stringifyValue(value any) ([]string, bool) {
	switch typed := value.(type) {
	case nil:
		return nil, false
	case bool:
		return []string{}, typed
	case string:
		return []string{typed}, typed != ""
	case int:
		return []string{strconv.Itoa(typed)}, typed != 0
	case int32:
		return []string{strconv.FormatInt(int64(typed), 10)}, typed != 0
	case int64:
		return []string{strconv.FormatInt(typed, 10)}, typed != 0
	case uint64:
		return []string{strconv.FormatUint(typed, 10)}, typed != 0
	case float32:
		return stringifyValue(float64(typed))
	case float64:
		return []string{strconv.FormatFloat(typed, 'f', -1, 64)}, typed != 0
	case []string:
		return typed, len(typed) > 0
	case []any:
		values := make([]string, 0, len(typed))
		for _, item := range typed {
			itemValues, ok := stringifyValue(item)
			if ok {
				values = append(values, itemValues...)
			}
		}
		return values, len(values) > 0
	default:
		return []string{fmt.Sprintf("%v", typed)}, true
	}
}
