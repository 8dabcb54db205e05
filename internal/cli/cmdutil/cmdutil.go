// Package cmdutil holds helpers shared by the brogw subcommands.
package cmdutil

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aryankumar/brogw/internal/config"
	"github.com/aryankumar/brogw/internal/output"
	"github.com/aryankumar/brogw/internal/util"
	"github.com/aryankumar/brogw/internal/wellstore"
	"github.com/aryankumar/brogw/internal/workspace"
)

// Config returns the configuration loaded by the root command
func Config(cmd *cobra.Command) (*config.BrogwConfig, error) {
	return workspace.ConfigFrom(cmd.Context())
}

// OpenWorkspace opens the workspace described by the loaded configuration.
// The caller must Close it.
func OpenWorkspace(cmd *cobra.Command) (*workspace.Workspace, error) {
	cfg, err := Config(cmd)
	if err != nil {
		return nil, err
	}
	return workspace.Open(cmd.Context(), cfg, slog.Default())
}

// NewFormatter builds the formatter selected by --output, honouring --wide when the command has it
func NewFormatter(cmd *cobra.Command, cfg *config.BrogwConfig) (output.Formatter, error) {
	format, ok := output.ParseFormat(cfg.Defaults.OutputFormat)
	if !ok {
		return nil, util.NewValidationError("output", cfg.Defaults.OutputFormat, "must be table, json or yaml")
	}

	wide, _ := cmd.Flags().GetBool("wide")
	noHeaders, _ := cmd.Flags().GetBool("no-headers")

	return output.NewFormatter(format,
		output.WithNoColor(cfg.Defaults.NoColor),
		output.WithWide(wide),
		output.WithNoHeaders(noHeaders),
	), nil
}

// AddDepthFlags registers --min-depth and --max-depth
func AddDepthFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("min-depth", 0, "only wells whose filter top is at or above this level (m NAP)")
	cmd.Flags().Float64("max-depth", 0, "only wells whose filter top is at or below this level (m NAP)")
}

// DepthFilter reads the depth flags. Bounds the user did not set stay open.
func DepthFilter(cmd *cobra.Command) (wellstore.DepthFilter, error) {
	var f wellstore.DepthFilter

	if cmd.Flags().Changed("min-depth") {
		v, err := cmd.Flags().GetFloat64("min-depth")
		if err != nil {
			return f, err
		}
		f.Min = &v
	}
	if cmd.Flags().Changed("max-depth") {
		v, err := cmd.Flags().GetFloat64("max-depth")
		if err != nil {
			return f, err
		}
		f.Max = &v
	}

	if err := f.Validate(); err != nil {
		return f, util.NewValidationError("max-depth", *f.Max, err.Error())
	}
	return f, nil
}

// Confirm asks a yes/no question and reports whether the answer was yes
func Confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
