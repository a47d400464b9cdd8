package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColorMode(t *testing.T) {
	assert.True(t, ResolveColorMode("always"))
	assert.False(t, ResolveColorMode("never"))
}

func TestHasColorSupport_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, HasColorSupport())
}

func TestHasColorSupport_DumbTerm(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, HasColorSupport())
}

func TestNewOutputStyles(t *testing.T) {
	t.Parallel()

	styles := NewOutputStyles()
	assert.NotNil(t, styles)
	assert.True(t, styles.Success.GetBold())
	assert.True(t, styles.Error.GetBold())
}
