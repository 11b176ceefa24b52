package preprocessor

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// expand handles one include directive found on line of the top frame.
func (g *Generator) expand(ctx *Context, ref, line string) error {
	top := g.stack.Top()
	fields := []zap.Field{
		zap.String("file", top.Ref),
		zap.Int("line", top.Line),
		zap.String("include", ctx.Format(ref)),
	}

	resolved, ok := ctx.Path.Resolve(ref)
	if !ok {
		g.log.Error("cannot resolve include", fields...)
		g.stats.Unresolved++
		return g.put(line)
	}

	if at, ok := ctx.Record.ExpandedAt(resolved); ok {
		g.log.Debug("include already expanded", append(fields, zap.Int("first_line", at))...)
		g.stats.Duplicates++
		return g.putf("/* %s first included at line %d */", strings.TrimSpace(line), at)
	}

	if g.excludes.MatchPath(resolved) || g.excludes.MatchName(ref) {
		g.log.Error("excluding include", fields...)
		g.stats.Excluded++
		return g.put(line)
	}

	if g.cfg.MaxDepth > 0 && g.stack.Len() >= g.cfg.MaxDepth {
		return fmt.Errorf("%s:%d: %s: %w", top.Ref, top.Line, ctx.Format(ref), ErrMaxDepth)
	}

	g.log.Debug("expanding include", fields...)

	// Recorded before the push so a file reaching itself again is a duplicate.
	ctx.Record.MarkExpanded(resolved, g.lines+1)

	if err := g.putf("/* %s */", strings.TrimSpace(line)); err != nil {
		return err
	}
	if err := g.putf("#line 1 %s", ref); err != nil {
		return err
	}
	if _, err := g.stack.PushAs(ref, resolved); err != nil {
		return fmt.Errorf("%s:%d: include %s: %w", top.Ref, top.Line, ctx.Format(ref), err)
	}
	g.stats.Expanded++
	return nil
}
