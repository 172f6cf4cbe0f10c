package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.sierra", []byte("ab\ncd\n\nx"))

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3}, // the newline itself
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1}, // empty line
		{7, 4, 1},
	}
	for _, tc := range cases {
		lc, ok := fs.Resolve(id, tc.off)
		require.True(t, ok, "offset %d", tc.off)
		require.Equal(t, LineCol{Line: tc.line, Col: tc.col}, lc, "offset %d", tc.off)
	}
}

func TestResolveUnknownFile(t *testing.T) {
	fs := NewFileSet()
	_, ok := fs.Resolve(7, 0)
	require.False(t, ok)
}

func TestPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("b.sierra", []byte("type int = int;\n"))
	require.Equal(t, "b.sierra:1:6", fs.Position(Span{File: id, Start: 5, End: 8}))
	require.Equal(t, "<unknown>", fs.Position(Span{File: 42}))
}

func TestByPathLatestWins(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("dup.sierra", []byte("old"))
	second := fs.AddVirtual("dup.sierra", []byte("new"))

	f, ok := fs.ByPath("dup.sierra")
	require.True(t, ok)
	require.Equal(t, second, f.ID)
	require.Equal(t, "new", string(f.Content))

	// The older content stays addressable by its id.
	require.Equal(t, "old", string(fs.Get(first).Content))
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 6, End: 12}
	require.Equal(t, Span{File: 1, Start: 4, End: 12}, a.Cover(b))
	require.Equal(t, a, a.Cover(Span{}))
}
