package translators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/xlat/plugin"
	"github.com/teranos/xlat/translators/markdown"
	"github.com/teranos/xlat/translators/typescript"
	"github.com/teranos/xlat/version"
)

func TestRegister(t *testing.T) {
	r := plugin.NewRegistry(version.APIVersion)
	require.NoError(t, Register(r))
	require.NoError(t, Register(r), "registering twice is a no-op")

	assert.Equal(t, []string{markdown.ModuleName, typescript.ModuleName}, r.List())

	m, ok := r.Get(typescript.ModuleName)
	require.True(t, ok)
	f, err := m.Lookup(typescript.ClassName)
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestRegisterRejectsOldHost(t *testing.T) {
	r := plugin.NewRegistry("1.0.0")
	assert.Error(t, Register(r))
}
