package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"patchstatus/internal/config"
	"patchstatus/internal/logx"
	"patchstatus/internal/paths"
)

// Set via -ldflags at build time.
var version = "dev"

var (
	projectRoot string
	configPath  string
	logDir      string
	verbose     bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "patchstatus",
		Short:         "Report whether composer-patches patches are applied",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&projectRoot, "root", "", "Project document root (composer files live in its parent)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to patchstatus.yaml (default <root>/patchstatus.yaml)")
	cmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write a timestamped run log into this directory")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log probe details to stderr")

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newToolsCmd())

	return cmd
}

// loadProject resolves paths and configuration from the persistent flags.
func loadProject() (paths.ProjectPaths, config.Config, error) {
	pp, err := paths.Resolve(projectRoot)
	if err != nil {
		return paths.ProjectPaths{}, config.Config{}, err
	}
	pp, err = pp.WithConfigFile(configPath)
	if err != nil {
		return paths.ProjectPaths{}, config.Config{}, err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return paths.ProjectPaths{}, config.Config{}, err
	}
	if logDir != "" {
		abs, err := filepath.Abs(logDir)
		if err != nil {
			return paths.ProjectPaths{}, config.Config{}, fmt.Errorf("resolve log dir: %w", err)
		}
		cfg.LogDir = abs
	}
	return paths.ApplyConfig(pp, cfg), cfg, nil
}

func newLogger(cmd *cobra.Command, pp paths.ProjectPaths) (*log.Logger, io.Closer, error) {
	var w io.Writer
	if verbose {
		w = cmd.ErrOrStderr()
	}
	return logx.New(pp.LogsDir, w)
}
