package logger

import (
	"io"
	"os"
)

var (
	FlagVerboseCount int  // -V, -VV
	FlagQuiet        bool // --quiet/-q
	FlagSilent       bool // --silent/-s
	FlagJSON         bool // --json, for CI log collectors
)

func ConfigureLoggerFromFlags() {
	var out io.Writer = os.Stdout
	var level string
	switch {
	case FlagSilent:
		level = "error"
		out = io.Discard
	case FlagQuiet:
		level = "error"
	case FlagVerboseCount > 0:
		level = "debug"
	default:
		level = "info"
	}

	Configure(Options{
		Level: level,
		JSON:  FlagJSON,
		Color: !FlagJSON,
		Out:   out,
	})
}
