package logger

import (
	"go.uber.org/zap"
)

// Field names shared by every component's structured logs.
const (
	FieldRunID     = "run_id"
	FieldComponent = "component"
	FieldPlugin    = "plugin"
	FieldPlatform  = "platform"
	FieldNode      = "node"
	FieldNodeKind  = "node_kind"
	FieldPhase     = "phase"
	FieldState     = "state"

	FieldPath      = "path"
	FieldFile      = "file"
	FieldAssembly  = "assembly"
	FieldReference = "reference"
	FieldDirective = "directive"

	FieldDurationMS = "duration_ms"
	FieldCount      = "count"
	FieldError      = "error"
)

// ComponentLogger returns the global logger named after a component
// (engine, loader, symbols, sink). Components take it as their default
// and accept a replacement through an option.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger scopes parent to a run, node or file.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
