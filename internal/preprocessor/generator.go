// Package preprocessor flattens source files into one stream by inlining
// #include "file" and #include <file> directives.
//
// Quoted references are resolved against the local search path, angled ones
// against the system search path. Each file is expanded at most once per
// search path; later references to it become a comment naming the output
// line where it was first included. Expanded content is framed with #line
// markers so positions can be mapped back to the original files.
package preprocessor

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ErrMaxDepth is returned when an expansion would exceed Config.MaxDepth.
var ErrMaxDepth = errors.New("maximum include depth exceeded")

var errReused = errors.New("generator already ran")

// Config is fixed for the duration of a run.
type Config struct {
	Inputs         []string
	Includes       []string
	SystemIncludes []string
	Excludes       []string

	// Output receives the flattened stream. It is never closed here.
	Output io.Writer
	Logger *zap.Logger

	// MaxDepth limits the number of simultaneously open files; 0 means no limit.
	MaxDepth int
}

// Stats summarises a run.
type Stats struct {
	Lines           int
	Files           int
	Expanded        int
	Duplicates      int
	Unresolved      int
	Excluded        int
	InvalidEncoding int
}

type Generator struct {
	cfg      Config
	log      *zap.Logger
	excludes Excludes
	local    *Context
	system   *Context

	stack FileStack
	w     io.Writer
	lines int
	stats Stats
	ran   bool
}

func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.Output == nil {
		return nil, errors.New("no output")
	}
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("invalid max depth %d", cfg.MaxDepth)
	}
	local, err := NewSearchPath(cfg.Includes...)
	if err != nil {
		return nil, fmt.Errorf("include path: %w", err)
	}
	system, err := NewSearchPath(cfg.SystemIncludes...)
	if err != nil {
		return nil, fmt.Errorf("system include path: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		cfg:      cfg,
		log:      log,
		excludes: Excludes(cfg.Excludes),
		local:    NewContext(Local, local),
		system:   NewContext(System, system),
		w:        cfg.Output,
	}, nil
}

// Generate runs a fresh Generator over cfg.
func Generate(cfg Config) (Stats, error) {
	g, err := NewGenerator(cfg)
	if err != nil {
		return Stats{}, err
	}
	return g.Run()
}

// Run processes every input in order. A Generator can only run once.
// Unresolved, excluded and badly encoded lines are logged and passed
// through; I/O failures abort the run.
func (g *Generator) Run() (stats Stats, err error) {
	if g.ran {
		return Stats{}, errReused
	}
	g.ran = true

	defer func() {
		if cerr := g.stack.Close(); cerr != nil && err == nil {
			err = cerr
		}
		g.stats.Lines = g.lines
		stats = g.stats
	}()

	for _, input := range g.cfg.Inputs {
		g.log.Debug("processing input", zap.String("file", input))

		abs, err := filepath.Abs(input)
		if err != nil {
			return stats, fmt.Errorf("%s: %w", input, err)
		}
		if g.excludes.MatchName(input) || g.excludes.MatchPath(abs) {
			g.log.Debug("input excluded", zap.String("file", input))
			continue
		}
		if g.isExpanded(abs) {
			g.log.Debug("input already expanded", zap.String("file", input))
			continue
		}

		g.local.Record.MarkExpanded(abs, g.lines+1)
		if _, err := g.stack.Push(input); err != nil {
			return stats, fmt.Errorf("open input: %w", err)
		}
		g.stats.Files++

		if err := g.drain(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (g *Generator) isExpanded(abs string) bool {
	if _, ok := g.local.Record.ExpandedAt(abs); ok {
		return true
	}
	_, ok := g.system.Record.ExpandedAt(abs)
	return ok
}

// drain consumes lines until the stack is empty.
func (g *Generator) drain() error {
	for !g.stack.Empty() {
		top := g.stack.Top()

		line, ok, err := top.Next()
		if err != nil {
			return fmt.Errorf("%s:%d: %w", top.Ref, top.Line+1, err)
		}
		if !ok {
			if _, err := g.stack.Pop(); err != nil {
				return fmt.Errorf("%s: %w", top.Ref, err)
			}
			if parent := g.stack.Top(); parent != nil {
				if err := g.putf("#line %d %s", parent.Line+1, parent.Ref); err != nil {
					return err
				}
			}
			continue
		}

		if !utf8.ValidString(line) {
			g.log.Error("invalid encoding, passing through",
				zap.String("file", top.Ref), zap.Int("line", top.Line))
			g.stats.InvalidEncoding++
			if err := g.put(line); err != nil {
				return err
			}
			continue
		}

		d := Classify(line)
		switch d.Kind {
		case Quoted:
			err = g.expand(g.local, d.Ref, line)
		case Angled:
			err = g.expand(g.system, d.Ref, line)
		case Bare:
			g.log.Debug("macro include left as is",
				zap.String("file", top.Ref), zap.Int("line", top.Line), zap.String("macro", d.Ref))
			err = g.put(line)
		default:
			err = g.put(line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ---------------- Output ----------------

func (g *Generator) put(line string) error {
	if _, err := io.WriteString(g.w, line+"\n"); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	g.lines++
	return nil
}

func (g *Generator) putf(format string, args ...any) error {
	return g.put(fmt.Sprintf(format, args...))
}
