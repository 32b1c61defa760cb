package restic

import "sort"

const (
	CommandBackup    = "backup"
	CommandCheck     = "check"
	CommandCopy      = "copy"
	CommandDump      = "dump"
	CommandFind      = "find"
	CommandForget    = "forget"
	CommandInit      = "init"
	CommandLs        = "ls"
	CommandMount     = "mount"
	CommandPrune     = "prune"
	CommandRestore   = "restore"
	CommandSnapshots = "snapshots"
	CommandStats     = "stats"
	CommandTag       = "tag"
	CommandUnlock    = "unlock"
	CommandVersion   = "version"
)

// DefaultCommand runs when neither the command line nor the global section
// names one.
const DefaultCommand = CommandSnapshots

var knownCommands = map[string]struct{}{
	CommandBackup:    {},
	CommandCheck:     {},
	CommandCopy:      {},
	CommandDump:      {},
	CommandFind:      {},
	CommandForget:    {},
	CommandInit:      {},
	CommandLs:        {},
	CommandMount:     {},
	CommandPrune:     {},
	CommandRestore:   {},
	CommandSnapshots: {},
	CommandStats:     {},
	CommandTag:       {},
	CommandUnlock:    {},
	CommandVersion:   {},
}

// IsKnownCommand reports whether name is a restic command this launcher
// knows about. Unknown commands are still launched: restic gains commands
// faster than this table.
func IsKnownCommand(name string) bool {
	_, found := knownCommands[name]
	return found
}

// CommandNames returns the known command names in alphabetical order.
func CommandNames() []string {
	names := make([]string, 0, len(knownCommands))
	for name := range knownCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
