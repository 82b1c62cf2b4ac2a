package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
//	0 (default) - results, errors with hints, final status
//	1 (-v)      - + progress log, plugin status, run summaries
//	2 (-vv)     - + resolution details, timing, config loaded
//	3 (-vvv)    - + every node event, every output request
//	4 (-vvvv)   - + artifact contents, object model dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Command output
	OutputErrors                           // Errors with hints
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress     // Node progress log
	OutputPluginStatus // Translator loaded / configured
	OutputRunSummary   // Per-run counts

	// Level 2 (-vv) - Detailed
	OutputResolution // Directive and assembly resolution
	OutputTiming     // Run timing
	OutputConfig     // Config values loaded/applied

	// Level 3 (-vvv) - Debug
	OutputNodeEvents // Every Translating/Translated notification
	OutputRequests   // Every file-system / content-write request

	// Level 4 (-vvvv) - Full dump
	OutputArtifacts // Artifact contents
	OutputDataDump  // Full object model contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress:     VerbosityInfo,
	OutputPluginStatus: VerbosityInfo,
	OutputRunSummary:   VerbosityInfo,

	OutputResolution: VerbosityDebug,
	OutputTiming:     VerbosityDebug,
	OutputConfig:     VerbosityDebug,

	OutputNodeEvents: VerbosityTrace,
	OutputRequests:   VerbosityTrace,

	OutputArtifacts: VerbosityAll,
	OutputDataDump:  VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:      "results",
	OutputErrors:       "errors",
	OutputUserStatus:   "status",
	OutputProgress:     "progress",
	OutputPluginStatus: "plugin-status",
	OutputRunSummary:   "run-summary",
	OutputResolution:   "resolution",
	OutputTiming:       "timing",
	OutputConfig:       "config",
	OutputNodeEvents:   "node-events",
	OutputRequests:     "requests",
	OutputArtifacts:    "artifacts",
	OutputDataDump:     "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
