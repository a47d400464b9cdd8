package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_WriteRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tbl := NewTable(&buf, []TableColumn{
		{Name: "TAG", Width: 20},
		{Name: "ID", Width: 5, Align: AlignRight},
		{Name: "VALUE", Width: 12},
	})

	tbl.WriteHeader()
	tbl.WriteRow("ImageWidth", "256", "512")
	tbl.WriteRow("BitsPerSample", "258", "16")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "TAG")
	assert.Contains(t, lines[1], "ImageWidth")
	assert.Contains(t, lines[2], "BitsPerSample")

	// Right-aligned ID column pads on the left
	assert.Contains(t, lines[1], "  256")
}

func TestTable_TruncatesLongValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tbl := NewTable(&buf, []TableColumn{{Name: "VALUE", Width: 8}})

	tbl.WriteRow("an extremely long tag value")

	assert.Contains(t, buf.String(), "…")
	assert.NotContains(t, buf.String(), "extremely long")
}

func TestTable_MissingValuesRenderEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tbl := NewTable(&buf, []TableColumn{
		{Name: "A", Width: 4},
		{Name: "B", Width: 4},
	})

	tbl.WriteRow("x")
	assert.Equal(t, "x\n", buf.String())
}
