// Package cli implements the gridmerge command-line interface.
//
// # Commands
//
//   - merge: Merge the zones of one or more Tecplot files into one grid
//   - inspect: Show zones and grid statistics, optionally in a browser
//   - bench: Compare the three match strategies on the same input
//   - serve: Run the HTTP merge endpoint
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
//
// # Configuration
//
// Defaults for strategy, mode, format, title and the serve address are read
// from a TOML file; see [Config]. Flags override file values.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridmerge/pkg/buildinfo"
	"github.com/matzehuels/gridmerge/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gridmerge"

	// configFile is the config file name inside the config directory.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *Config
}

// New creates a new CLI instance with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), config: &Config{}}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Gridmerge fuses triangular mesh zones into one grid",
		Long: `Gridmerge reads multi-zone triangular meshes, deduplicates nodes that share
exact coordinates across zones, and rebuilds the shared edge and face
topology of the merged grid.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			explicit := cmd.Flags().Changed("config")
			path := c.configPath
			if !explicit {
				path = defaultConfigPath()
			}
			cfg, err := LoadConfig(path, explicit)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gridmerge/config.toml)")

	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/gridmerge/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultConfigPath returns the implicit config file location, or "" when
// no home directory is known.
func defaultConfigPath() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configFile)
}

// sources turns command arguments into pipeline sources; "-" reads stdin.
func sources(args []string, stdin io.Reader) []pipeline.Source {
	out := make([]pipeline.Source, len(args))
	for i, a := range args {
		if a == "-" {
			out[i] = pipeline.Source{Reader: stdin}
			continue
		}
		out[i] = pipeline.Source{Path: a}
	}
	return out
}
