package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fwessels/seapool"
	"github.com/fwessels/seapool/internal/config"
)

var (
	configFile string
	cfg        *config.Config
	logger     *zap.Logger

	// newLogger builds the diagnostics logger; tests replace it.
	newLogger = func(verbose bool) (*zap.Logger, error) {
		zc := zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		return zc.Build()
	}
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "seapool [flags] FILE...",
		Short: "Combine C sources into one file by inlining #include directives",
		Long: `seapool concatenates the given files, replacing each #include "file" and
#include <file> with the contents of the file it names. Quoted names are
searched in the --include directories, angled names in the --system-include
directories, first match wins. Every file is inlined at most once; #line
markers map the output back to the original files.

Settings may also come from .seapool.yaml in the working directory (or
--config) and SEAPOOL_* environment variables.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, _, err = config.Load(config.LoadOptions{
				ConfigFilePath: configFile,
				Flags:          cmd.Flags(),
			})
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Inputs = args
			}
			logger, err = newLogger(cfg.Verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runGenerate,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default .seapool.yaml in the working directory)")
	pf.StringSliceP("include", "I", nil, `directory searched for #include "file" (repeatable)`)
	pf.StringSliceP("system-include", "S", nil, "directory searched for #include <file> (repeatable)")
	pf.StringSliceP("exclude", "x", nil, "file name or glob pattern never inlined (repeatable)")
	pf.StringP("output", "o", "", `output file ("-" or empty for stdout)`)
	pf.Int("max-depth", 0, "maximum include nesting, 0 for no limit")
	pf.BoolP("verbose", "v", false, "log debug diagnostics")

	root.AddCommand(newConfigCmd())
	return root
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [FILE...]",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	p := seapool.New(seapool.WithLogger(logger), seapool.WithMaxDepth(cfg.MaxDepth)).
		AddInput(cfg.Inputs...).
		AddInclude(cfg.Includes...).
		AddSystemInclude(cfg.SystemIncludes...).
		AddExclude(cfg.Excludes...)

	var st seapool.Stats
	var err error
	if cfg.Output == "" || cfg.Output == "-" {
		st, err = p.Generate(cmd.OutOrStdout())
	} else {
		st, err = p.SetOutput(cfg.Output).Run()
	}
	if err != nil {
		return err
	}

	logger.Debug("done",
		zap.Int("lines", st.Lines),
		zap.Int("files", st.Files),
		zap.Int("expanded", st.Expanded),
		zap.Int("duplicates", st.Duplicates),
		zap.Int("unresolved", st.Unresolved),
		zap.Int("excluded", st.Excluded),
		zap.Int("invalid_encoding", st.InvalidEncoding))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
