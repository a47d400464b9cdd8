package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcnlab/stackscope/internal/errors"
)

func TestViewCmd_RefusesWithoutTerminal(t *testing.T) {
	path := writeMovieTIFF(t)

	// Test binaries run with stdout redirected, so the viewer must refuse
	// to start rather than dump escape sequences into the pipe.
	_, err := execRoot(t, "view", path)
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrNotATerminal)
}

func TestViewCmd_Flags(t *testing.T) {
	t.Parallel()

	flags := &ViewFlags{}
	cmd := newViewCmd(flags)

	require.NotNil(t, cmd.Flags().Lookup("fps"))
	require.NotNil(t, cmd.Flags().Lookup("color"))
	require.NotNil(t, cmd.Flags().Lookup("per-frame"))
}
