package config

import (
	"time"

	"github.com/brettbedarf/vfshell/internal/util"
)

// CLI verbosity values accepted by [ConfigOverride.LogLvl].
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl = util.WarnLevel

	// DefaultScriptDelay paces consecutive script steps
	DefaultScriptDelay = 300 * time.Millisecond

	// DefaultScriptStartDelay is waited once before the first script step
	DefaultScriptStartDelay = 200 * time.Millisecond

	DefaultFsName = "vfshell"
	DefaultName   = "vfshell"
)

// verboseLevels maps CLI verbosity (index+1) to internal log levels
var verboseLevels = [5]util.LogLevel{
	util.ErrorLevel,
	util.WarnLevel,
	util.InfoLevel,
	util.DebugLevel,
	util.TraceLevel,
}

// VerboseToLogLevel clamps v to [ErrorVerbose, TraceVerbose] and returns the log level.
func VerboseToLogLevel(v int) util.LogLevel {
	v = max(ErrorVerbose, min(v, TraceVerbose))
	return verboseLevels[v-1]
}
