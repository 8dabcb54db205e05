package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aryankumar/brogw/internal/cli/series"
	"github.com/aryankumar/brogw/internal/cli/wells"
	"github.com/aryankumar/brogw/internal/config"
	"github.com/aryankumar/brogw/internal/util"
	"github.com/aryankumar/brogw/internal/workspace"
)

var (
	cfgFile string
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "brogw",
		Short: "brogw - BRO groundwater well downloader",
		Long: `brogw retrieves groundwater monitoring wells from the Dutch BRO registry,
downloads their measurement series with a bounded number of concurrent
requests, and exports them to Excel or PNG plots.

Wells are kept in a local workspace so that retrieval, download, plotting
and export can run as separate invocations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	// Define persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.brogw.yaml)")
	rootCmd.PersistentFlags().String("registry-url", "", "base URL of the BRO registry gateway")
	rootCmd.PersistentFlags().String("workspace", "", "workspace directory (default is $HOME/.brogw)")
	rootCmd.PersistentFlags().String("redis-addr", "", "cache series in Redis at this address instead of the workspace")
	rootCmd.PersistentFlags().String("metrics-addr", "", "serve Prometheus metrics on this address during downloads")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (json, yaml, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(wells.NewWellsCmd())
	rootCmd.AddCommand(series.NewSeriesCmd())

	return rootCmd
}

// initConfig loads configuration, sets up logging and attaches the config to the command context
func initConfig(cmd *cobra.Command) error {
	setupLogging(cmd)

	manager := config.NewManager(cfgFile)
	if err := manager.BindFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := manager.Load()
	if err != nil {
		return err
	}

	if used := manager.ConfigFileUsed(); used != "" {
		slog.Debug("loaded configuration", "file", used)
	}
	slog.Debug("configuration",
		"registry", cfg.Registry.URL,
		"workspace", cfg.Workspace.Dir,
		"parallel", cfg.Defaults.Parallel,
		"redis", cfg.Cache.RedisAddr != "")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(workspace.WithConfig(ctx, cfg))

	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	// Set log level based on verbose flag
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))

	if verbose {
		slog.Debug("verbose logging enabled")
	}
}

// PrintError writes a user-facing description of err to stderr
func PrintError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", util.FriendlyError(err))
}
