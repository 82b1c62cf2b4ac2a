package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}

func TestAs(t *testing.T) {
	original := &customError{msg: "custom"}
	wrapped := Wrap(original, "wrapped")

	var target *customError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "custom", target.msg)
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "check the descriptor path")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "check the descriptor path", hints[0])
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		descriptor  bool
		resolution  bool
		translation bool
		output      bool
		fatal       bool
	}{
		{name: "nil", err: nil},
		{name: "descriptor", err: NewDescriptorError("missing %s", "class-name"), descriptor: true, fatal: true},
		{name: "wrapped descriptor", err: WrapDescriptor(New("bad toml"), "decode"), descriptor: true, fatal: true},
		{name: "resolution", err: NewResolutionError("type %s", "A.B"), resolution: true},
		{name: "translation", err: Wrap(ErrTranslation, "method Foo"), translation: true},
		{name: "output", err: WrapOutput(New("locked"), "write a.ts"), output: true},
		{name: "load", err: WrapLoad(New("no such file"), "open module"), fatal: true},
		{name: "bundle", err: Wrap(ErrBundle, "open"), fatal: true},
		{name: "cancelled", err: Wrap(ErrCancelled, "run")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.descriptor, IsDescriptorError(tt.err))
			assert.Equal(t, tt.resolution, IsResolutionError(tt.err))
			assert.Equal(t, tt.translation, IsTranslationError(tt.err))
			assert.Equal(t, tt.output, IsOutputError(tt.err))
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}

func TestMarkKeepsMessage(t *testing.T) {
	err := NewDescriptorError("class-name is required")
	assert.Equal(t, "class-name is required", err.Error())
	assert.True(t, Is(err, ErrDescriptor))
}

func TestStdlibWrappingInterop(t *testing.T) {
	err := fmt.Errorf("context: %w", ErrNotFound)
	assert.True(t, IsNotFoundError(err))
}
