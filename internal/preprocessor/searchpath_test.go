package preprocessor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchPathResolve(t *testing.T) {
	dir := tree(t, map[string]string{
		"one/a.h":     "one",
		"two/a.h":     "two",
		"two/b.h":     "two",
		"two/sub/c.h": "two",
		"one/d.h/x":   "directory, not a file",
		"two/d.h":     "two",
	})

	sp, err := NewSearchPath("one", filepath.Join(dir, "two"), "missing")
	require.NoError(t, err)

	dirs := sp.Dirs()
	require.Len(t, dirs, 3)
	require.Equal(t, "one", dirs[0].Raw)
	require.Equal(t, filepath.Join(dir, "one"), dirs[0].Abs)

	tests := []struct {
		ref  string
		want string
		ok   bool
	}{
		{"a.h", filepath.Join(dir, "one", "a.h"), true},
		{"b.h", filepath.Join(dir, "two", "b.h"), true},
		{"sub/c.h", filepath.Join(dir, "two", "sub", "c.h"), true},
		{"d.h", filepath.Join(dir, "two", "d.h"), true},
		{"e.h", "", false},
	}
	for _, tt := range tests {
		got, ok := sp.Resolve(tt.ref)
		require.Equal(t, tt.ok, ok, tt.ref)
		require.Equal(t, tt.want, got, tt.ref)
	}
}

func TestEmptySearchPathResolvesNothing(t *testing.T) {
	tree(t, map[string]string{"a.h": "a"})
	sp, err := NewSearchPath()
	require.NoError(t, err)
	_, ok := sp.Resolve("a.h")
	require.False(t, ok)
}

func TestContextFormat(t *testing.T) {
	local := NewContext(Local, SearchPath{})
	system := NewContext(System, SearchPath{})

	require.Equal(t, `"a.h"`, local.Format("a.h"))
	require.Equal(t, "<a.h>", system.Format("a.h"))
	require.Equal(t, "local", local.Kind.String())
	require.Equal(t, "system", system.Kind.String())
	require.NotSame(t, local.Record, system.Record)
}

func TestRecord(t *testing.T) {
	r := NewRecord()
	_, ok := r.ExpandedAt("/a.h")
	require.False(t, ok)

	r.MarkExpanded("/a.h", 3)
	r.MarkExpanded("/b.h", 7)
	at, ok := r.ExpandedAt("/a.h")
	require.True(t, ok)
	require.Equal(t, 3, at)

	r.MarkExpanded("/a.h", 9)
	at, _ = r.ExpandedAt("/a.h")
	require.Equal(t, 9, at)
	require.Equal(t, 2, r.Len())
}
