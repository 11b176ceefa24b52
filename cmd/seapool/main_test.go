package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	mainC = `#include "util.h"
#include <stddef.h>
#include "missing.h"
int main(void) { return util(); }
`
	utilH = `#include <stddef.h>
int util(void);
`
	stddefH = `typedef unsigned long size_t;
`
	combined = `/* #include "util.h" */
#line 1 util.h
/* #include <stddef.h> */
#line 1 stddef.h
typedef unsigned long size_t;
#line 2 util.h
int util(void);
#line 2 main.c
/* #include <stddef.h> first included at line 3 */
#include "missing.h"
int main(void) { return util(); }
`
)

func lines(a ...string) string {
	return strings.Join(a, "\n") + "\n"
}

func setup(t *testing.T) (string, *observer.ObservedLogs) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{
		"main.c":         mainC,
		"src/util.h":     utilH,
		"sys/stddef.h":   stddefH,
		"sys/unused.h":   "int unused;\n",
		"src/windows.h":  "#error\n",
		"conf/base.yaml": "includes: [src]\nsystem_includes: [sys]\n",
	} {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	t.Chdir(dir)

	core, logs := observer.New(zapcore.DebugLevel)
	saved := newLogger
	newLogger = func(bool) (*zap.Logger, error) { return zap.New(core), nil }
	t.Cleanup(func() { newLogger = saved })
	return dir, logs
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateToStdout(t *testing.T) {
	_, logs := setup(t)

	got, err := execute(t, "-I", "src", "-S", "sys", "main.c")
	require.NoError(t, err)
	if diff := cmp.Diff(combined, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	require.Equal(t, "cannot resolve include", errs[0].Message)
	require.Equal(t, int64(3), errs[0].ContextMap()["line"])
	require.Equal(t, 1, logs.FilterMessage("done").Len())
}

func TestGenerateToFile(t *testing.T) {
	dir, _ := setup(t)

	got, err := execute(t, "--config", "conf/base.yaml", "-o", "out.c", "main.c")
	require.NoError(t, err)
	require.Empty(t, got)

	written, err := os.ReadFile(filepath.Join(dir, "out.c"))
	require.NoError(t, err)
	if diff := cmp.Diff(combined, string(written)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalConfigFile(t *testing.T) {
	dir, _ := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".seapool.yaml"), []byte(`
inputs: [main.c]
includes: [src]
system_includes: [sys]
output: "-"
`), 0o644))

	got, err := execute(t)
	require.NoError(t, err)
	require.Equal(t, combined, got)
}

func TestExcludeFlag(t *testing.T) {
	setup(t)

	got, err := execute(t, "-I", "src", "-S", "sys", "-x", "util.h", "main.c")
	require.NoError(t, err)
	require.Contains(t, got, lines(`#include "util.h"`, "/* #include <stddef.h> */", "#line 1 stddef.h"))
}

func TestMaxDepthFlag(t *testing.T) {
	setup(t)

	_, err := execute(t, "-I", "src", "-S", "sys", "--max-depth", "2", "main.c")
	require.ErrorContains(t, err, "maximum include depth exceeded")
}

func TestNoInputs(t *testing.T) {
	setup(t)

	_, err := execute(t, "-I", "src")
	require.ErrorContains(t, err, "no input files")
}

func TestMissingInput(t *testing.T) {
	setup(t)

	_, err := execute(t, "nope.c")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigCommand(t *testing.T) {
	setup(t)

	got, err := execute(t, "config", "--config", "conf/base.yaml", "-x", "windows.h", "main.c")
	require.NoError(t, err)
	want := `inputs:
    - main.c
includes:
    - src
system_includes:
    - sys
excludes:
    - windows.h
output: ""
max_depth: 0
verbose: false
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
