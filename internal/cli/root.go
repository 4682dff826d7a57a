package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/shapekit/internal/config"
)

var (
	version = "dev" // semantic version (e.g., "v1.2.3")
	commit  string  // git commit SHA
	date    string  // build timestamp
)

// SetVersion sets the version information displayed by --version and
// reported by the MCP server. main calls it with values injected via
// ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// NewRootCommand builds the shapekit command tree.
//
// The persistent pre-run loads the configuration named by --config, picks
// the log level (--verbose wins over log_level) and attaches both the logger
// and the settings to the command context.
func NewRootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "shapekit",
		Short:        "shapekit groups image contours by shape and generates test scenes",
		Long:         `shapekit extracts closed contours from an image, describes each one by its scale-invariant P²/A ratio and groups them by reference category or by ratio similarity. It also generates synthetic scenes of non-overlapping circles, squares and triangles to test that analysis against.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			level := cfg.Level()
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			if configPath != "" {
				logger.Debug("loaded configuration", "path", configPath)
			}

			ctx := withConfig(withLogger(cmd.Context(), logger), cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("shapekit %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML configuration file")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newServeCmd())

	return root
}

// Execute runs the shapekit CLI under ctx and returns the first command
// error. A cancelled ctx surfaces as context.Canceled.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
