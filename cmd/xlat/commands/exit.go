package commands

import "github.com/teranos/xlat/errors"

// Exit codes reported by the xlat binary.
const (
	ExitFailure    = 1
	ExitDescriptor = 2
	ExitFatal      = 3
	ExitCancelled  = 130
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errors.ErrCancelled):
		return ExitCancelled
	case errors.IsDescriptorError(err):
		return ExitDescriptor
	case errors.IsFatal(err):
		return ExitFatal
	default:
		return ExitFailure
	}
}
