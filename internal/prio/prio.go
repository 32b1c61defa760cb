// Package prio lowers the scheduling priority of the restic process by
// prefixing the command line with nice and ionice.
package prio

import (
	"runtime"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/resticwrap/resticwrap/internal/profile"
)

// Wrap returns the binary and arguments to execute, prefixed with the
// priority tools requested in the global section. On platforms without
// nice or ionice the command line is returned unchanged.
func Wrap(binary string, arguments []string, global *profile.Global) (string, []string) {
	prefix := commandPrefix(global, runtime.GOOS)
	if len(prefix) == 0 {
		return binary, arguments
	}
	command := append(prefix[1:], binary)
	return prefix[0], append(command, arguments...)
}

func commandPrefix(global *profile.Global, goos string) []string {
	if global == nil {
		return nil
	}
	if goos == "windows" {
		if global.Nice != 0 || global.IONice {
			log.Debug().Msg("nice and ionice are not available on windows")
		}
		return nil
	}

	prefix := []string{}
	if global.IONice && goos == "linux" {
		prefix = append(prefix, "ionice", "-c", strconv.Itoa(global.IONiceClass))
		if global.IONiceLevel != 0 {
			prefix = append(prefix, "-n", strconv.Itoa(global.IONiceLevel))
		}
	}
	if global.Nice != 0 {
		prefix = append(prefix, "nice", "-n", strconv.Itoa(global.Nice))
	}
	return prefix
}
