// Package console configures the global zerolog logger for terminal output.
package console

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Setup initialises the global logger. Verbose wins over quiet when both
// flags are set.
func Setup(verbose, quiet bool) {
	level := zerolog.InfoLevel
	switch {
	case verbose:
		level = zerolog.DebugLevel
	case quiet:
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = New(os.Stderr)
}

// New returns a console logger writing to out. Colors are enabled only when
// out is a terminal.
func New(out io.Writer) zerolog.Logger {
	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}
	writer := zerolog.ConsoleWriter{
		Out:          out,
		NoColor:      noColor,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(writer)
}
