package html

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeDump(t *testing.T) {
	tree := Parse("<html><p>Hi <b>there</b></p></html>")
	var buf bytes.Buffer
	require.NoError(t, tree.Dump(&buf))
	want := "<html>\n" +
		"  <p>\n" +
		"    \"Hi \"\n" +
		"    <b>\n" +
		"      \"there\"\n"
	assert.Equal(t, want, buf.String())
}

func TestTreeDumpImplicitRoot(t *testing.T) {
	tree := Parse("loose")
	var buf bytes.Buffer
	require.NoError(t, tree.Dump(&buf))
	assert.Equal(t, "(document)\n  \"loose\"\n", buf.String())
}

func TestTreeWalkDepth(t *testing.T) {
	tree := Parse("<a><b><c></c></b></a>")
	depths := make(map[string]int)
	tree.Walk(func(id NodeID, depth int) {
		depths[tree.Node(id).Tag] = depth
	})
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 2}, depths)
}
