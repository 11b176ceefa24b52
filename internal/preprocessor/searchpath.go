package preprocessor

import (
	"os"
	"path/filepath"
)

// ---------------- Search paths ----------------

// Dir is one search directory, as given and in absolute form.
type Dir struct {
	Raw string
	Abs string
}

// SearchPath is an ordered list of directories. The first directory holding
// a reference wins.
type SearchPath struct {
	dirs []Dir
}

func NewSearchPath(dirs ...string) (SearchPath, error) {
	sp := SearchPath{dirs: make([]Dir, 0, len(dirs))}
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return SearchPath{}, err
		}
		sp.dirs = append(sp.dirs, Dir{Raw: d, Abs: abs})
	}
	return sp, nil
}

func (sp SearchPath) Dirs() []Dir {
	return append([]Dir(nil), sp.dirs...)
}

// Resolve returns the absolute path of the first candidate that exists.
func (sp SearchPath) Resolve(ref string) (string, bool) {
	for _, d := range sp.dirs {
		cand := filepath.Join(d.Abs, ref)
		if fileExists(cand) {
			return cand, true
		}
	}
	return "", false
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// ---------------- Contexts ----------------

type ContextKind int

const (
	Local ContextKind = iota
	System
)

func (k ContextKind) String() string {
	if k == System {
		return "system"
	}
	return "local"
}

// Context pairs a search path with the record of what it already expanded.
type Context struct {
	Kind   ContextKind
	Path   SearchPath
	Record *Record
}

func NewContext(kind ContextKind, path SearchPath) *Context {
	return &Context{Kind: kind, Path: path, Record: NewRecord()}
}

// Format renders ref the way it is spelled in a directive of this kind.
func (c *Context) Format(ref string) string {
	if c.Kind == System {
		return "<" + ref + ">"
	}
	return `"` + ref + `"`
}
