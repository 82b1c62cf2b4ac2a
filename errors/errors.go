// Package errors provides error handling for xlat.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// On top of that it defines the sentinels for the error taxonomy of a
// translation run. Callers wrap a sentinel to add context and classify
// with the Is* helpers:
//
//	if err := decode(path); err != nil {
//	    return errors.Wrapf(errors.Mark(err, errors.ErrDescriptor), "descriptor %s", path)
//	}
//
//	if errors.IsDescriptorError(err) {
//	    // fatal, report once
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
	Join         = crdb.Join
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinels for the translation error taxonomy.
// Wrap or Mark these to keep the category while adding context.
var (
	// ErrDescriptor indicates a malformed or incomplete plugin descriptor or config document
	ErrDescriptor = New("descriptor error")

	// ErrResolution indicates a type, member or assembly could not be located
	ErrResolution = New("resolution error")

	// ErrTranslation indicates a translator failed on a single node
	ErrTranslation = New("translation error")

	// ErrOutput indicates a file-system or content-write request could not be serviced
	ErrOutput = New("output error")

	// ErrLoad indicates the translator module could not be loaded or instantiated
	ErrLoad = New("load error")

	// ErrBundle indicates the source bundle could not be opened
	ErrBundle = New("bundle error")

	// ErrFatal indicates an error outside node scope that aborts the run
	ErrFatal = New("fatal run error")

	// ErrCancelled indicates the run was cancelled cooperatively
	ErrCancelled = New("run cancelled")

	// ErrBusy indicates a run is already active on the engine
	ErrBusy = New("translation already running")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")
)

// IsDescriptorError checks if an error is or wraps ErrDescriptor
func IsDescriptorError(err error) bool {
	return err != nil && Is(err, ErrDescriptor)
}

// IsResolutionError checks if an error is or wraps ErrResolution
func IsResolutionError(err error) bool {
	return err != nil && Is(err, ErrResolution)
}

// IsTranslationError checks if an error is or wraps ErrTranslation
func IsTranslationError(err error) bool {
	return err != nil && Is(err, ErrTranslation)
}

// IsOutputError checks if an error is or wraps ErrOutput
func IsOutputError(err error) bool {
	return err != nil && Is(err, ErrOutput)
}

// IsFatal reports whether err aborts a whole run: descriptor, load, bundle
// and fatal errors all do. Cancellation is not fatal.
func IsFatal(err error) bool {
	return err != nil && IsAny(err, ErrDescriptor, ErrLoad, ErrBundle, ErrFatal)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewDescriptorError creates a descriptor error with a formatted message
func NewDescriptorError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrDescriptor)
}

// NewResolutionError creates a resolution error with a formatted message
func NewResolutionError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrResolution)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNotFound)
}

// WrapDescriptor marks err as a descriptor error and adds context
func WrapDescriptor(err error, context string) error {
	return Wrap(Mark(err, ErrDescriptor), context)
}

// WrapLoad marks err as a load error and adds context
func WrapLoad(err error, context string) error {
	return Wrap(Mark(err, ErrLoad), context)
}

// WrapOutput marks err as an output error and adds context
func WrapOutput(err error, context string) error {
	return Wrap(Mark(err, ErrOutput), context)
}
