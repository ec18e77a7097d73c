package common

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Log is the package-global logger shared by the loader, animator and profiler.
var (
	Log *log.Logger
)

// Fields is forwarded from logrus so callers do not need to import it for WithFields.
type Fields = log.Fields

func init() {
	Log = &log.Logger{
		Out:          os.Stderr,
		Formatter:    &log.TextFormatter{DisableColors: false, FullTimestamp: true},
		Hooks:        make(log.LevelHooks),
		Level:        log.InfoLevel,
		ExitFunc:     os.Exit,
		ReportCaller: false,
	}
}

// ConfigureLogging switches the global logger between debug and info level.
// Debug level surfaces diagnostics such as lazily created clip tracks.
//
// Parameters:
//   - debug: true to enable debug output
func ConfigureLogging(debug bool) {
	Log.SetLevel(log.DebugLevel)
	if !debug {
		Log.SetLevel(log.InfoLevel)
	}
}
