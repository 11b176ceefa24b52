/*
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package seapool combines C sources and headers into a single file by
// inlining their #include directives.
//
//	st, err := seapool.New(seapool.WithLogger(log)).
//		AddInput("lib.c").
//		AddInclude("include").
//		AddSystemInclude("/usr/include").
//		AddExclude("windows.h").
//		SetOutput("amalgamation.c").
//		Run()
package seapool

import (
	"io"

	"go.uber.org/zap"

	"github.com/fwessels/seapool/internal/preprocessor"
)

// Stats summarises a run.
type Stats = preprocessor.Stats

// ErrMaxDepth is returned when nesting exceeds the limit set with WithMaxDepth.
var ErrMaxDepth = preprocessor.ErrMaxDepth

type Pool struct {
	logger         *zap.Logger
	inputs         []string
	includes       []string
	systemIncludes []string
	excludes       []string
	output         string
	maxDepth       int
}

type Option func(*Pool)

func WithLogger(l *zap.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMaxDepth limits how many files may be open at once. 0 means no limit.
func WithMaxDepth(n int) Option {
	return func(p *Pool) { p.maxDepth = n }
}

func New(opts ...Option) *Pool {
	p := &Pool{logger: zap.NewNop()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// AddInput appends files to the list of inputs.
func (p *Pool) AddInput(names ...string) *Pool {
	p.inputs = append(p.inputs, names...)
	return p
}

// AddInclude appends directories searched for #include "file".
func (p *Pool) AddInclude(dirs ...string) *Pool {
	p.includes = append(p.includes, dirs...)
	return p
}

// AddSystemInclude appends directories searched for #include <file>.
func (p *Pool) AddSystemInclude(dirs ...string) *Pool {
	p.systemIncludes = append(p.systemIncludes, dirs...)
	return p
}

// AddExclude appends names or patterns of files that are never inlined.
func (p *Pool) AddExclude(names ...string) *Pool {
	p.excludes = append(p.excludes, names...)
	return p
}

// SetOutput names the output file. Without one, Run writes to a temporary
// file that is removed afterwards.
func (p *Pool) SetOutput(name string) *Pool {
	p.output = name
	return p
}

func (p *Pool) config(w io.Writer) preprocessor.Config {
	return preprocessor.Config{
		Inputs:         append([]string(nil), p.inputs...),
		Includes:       append([]string(nil), p.includes...),
		SystemIncludes: append([]string(nil), p.systemIncludes...),
		Excludes:       append([]string(nil), p.excludes...),
		Output:         w,
		Logger:         p.logger,
		MaxDepth:       p.maxDepth,
	}
}

// Generate writes the combined output to w, which stays open.
func (p *Pool) Generate(w io.Writer) (Stats, error) {
	return preprocessor.Generate(p.config(w))
}

// Run writes the combined output to the configured file.
func (p *Pool) Run() (Stats, error) {
	s, err := openSink(p.output)
	if err != nil {
		p.logger.Error("cannot open output", zap.String("output", p.output), zap.Error(err))
		return Stats{}, err
	}

	st, err := p.Generate(s)
	if err != nil {
		p.logger.Error("generation failed", zap.Error(err))
		_ = s.Close()
		return st, err
	}
	if err := s.Close(); err != nil {
		p.logger.Error("cannot close output", zap.String("output", s.Name()), zap.Error(err))
		return st, err
	}
	p.logger.Debug("output written",
		zap.String("output", s.Name()),
		zap.Int("lines", st.Lines),
		zap.Int("files", st.Files),
		zap.Int("expanded", st.Expanded))
	return st, nil
}
