package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	l, err := New("warn", "json")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	_, err = New("barulhento", "json")
	assert.Error(t, err)
}

func TestOuNop(t *testing.T) {
	assert.NotNil(t, OuNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OuNop(l))
}
