// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrxxx66/modpack/internal/config"
	"github.com/mrxxx66/modpack/internal/logging"
	"github.com/mrxxx66/modpack/pkg/modpack"
	"github.com/mrxxx66/modpack/pkg/modprop"
	"github.com/mrxxx66/modpack/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra handler receives an App reference and reads
	// configuration, time and output streams through it.
	App struct {
		Config       ConfigProvider
		Clock        modpack.Clock
		CreationTime func(path string) (time.Time, error)
		stdout       io.Writer
		stderr       io.Writer

		// Persistent flag values, bound by NewRootCommand.
		verbose bool
		cfgFile string
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config       ConfigProvider
		Clock        modpack.Clock
		CreationTime func(path string) (time.Time, error)
		Stdout       io.Writer
		Stderr       io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.LoadResult, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.CreationTime == nil {
		deps.CreationTime = modprop.CreationTime
	}

	return &App{
		Config:       deps.Config,
		Clock:        deps.Clock,
		CreationTime: deps.CreationTime,
		stdout:       deps.Stdout,
		stderr:       deps.Stderr,
	}, nil
}

// loadConfig loads configuration honoring the --config flag.
func (a *App) loadConfig(ctx context.Context) (*config.LoadResult, error) {
	return a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.cfgFile),
	})
}

// isVerbose reports whether verbose output is on. The flag wins; otherwise
// ui.verbose from the loaded configuration applies.
func (a *App) isVerbose(cfg *config.Config) bool {
	if a.verbose {
		return true
	}
	return cfg != nil && cfg.UI.Verbose
}

// logger returns the command logger writing to w.
func (a *App) logger(w io.Writer, cfg *config.Config) *log.Logger {
	return logging.New(w, a.isVerbose(cfg))
}
