package reporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRegistered(t *testing.T) {
	r, err := Create("noop")
	require.NoError(t, err)
	assert.IsType(t, &NoopReporter{}, r)
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
	assert.Contains(t, err.Error(), "noop")
}

func TestRegisterTwice(t *testing.T) {
	reg := make(Registry)
	ctr := func() Reporter { return &NoopReporter{} }
	assert.NoError(t, reg.register("x", ctr))
	assert.Error(t, reg.register("x", ctr))
	assert.Equal(t, []string{"x"}, reg.names())
}
