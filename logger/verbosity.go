package logger

import "go.uber.org/zap/zapcore"

// Verbosity is the -v count given on the command line. Each step adds
// output categories (see output.go) and lowers the log level.
const (
	VerbosityUser  = 0 // results and errors
	VerbosityInfo  = 1 // -v: progress, plugin status, run summary
	VerbosityDebug = 2 // -vv: resolution, timing, config
	VerbosityTrace = 3 // -vvv: every node event and request
	VerbosityAll   = 4 // -vvvv: artifacts and model dumps
)

// verbosityLevels is indexed by verbosity; counts past the end use the last entry.
var verbosityLevels = []zapcore.Level{
	VerbosityUser:  zapcore.WarnLevel,
	VerbosityInfo:  zapcore.InfoLevel,
	VerbosityDebug: zapcore.DebugLevel,
}

// VerbosityToLevel maps a -v count to the minimum zap level logged.
func VerbosityToLevel(verbosity int) zapcore.Level {
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity >= len(verbosityLevels) {
		verbosity = len(verbosityLevels) - 1
	}
	return verbosityLevels[verbosity]
}
