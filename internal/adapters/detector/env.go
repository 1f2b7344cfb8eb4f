// Package detector picks the log format from the terminal and CI environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// LogFormat is the rendering of log records.
type LogFormat int

const (
	// FormatAuto defers to DetectLogFormat.
	FormatAuto LogFormat = iota
	// FormatPretty writes colored human-readable lines.
	FormatPretty
	// FormatJSON writes one JSON object per record.
	FormatJSON
)

// String returns the flag spelling of f.
func (f LogFormat) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// DetectLogFormat returns FormatPretty when stderr is a terminal outside CI, FormatJSON otherwise.
func DetectLogFormat() LogFormat {
	return detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) LogFormat {
	isCI := ci == "true" || ci == "1"
	if !isTTY || isCI {
		return FormatJSON
	}
	return FormatPretty
}

// ResolveLogFormat applies the user's choice to the detected format.
// userFlag is one of "auto", "pretty", "text", "json" or empty; unknown values keep autoDetected.
func ResolveLogFormat(autoDetected LogFormat, userFlag string) LogFormat {
	switch userFlag {
	case "pretty", "text":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return autoDetected
	}
}
