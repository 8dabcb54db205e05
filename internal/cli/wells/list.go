package wells

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aryankumar/brogw/internal/cli/cmdutil"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the wells in the workspace",
		Long: `List the wells retrieved into the workspace, optionally restricted to a
filter top range.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd)
		},
	}

	cmdutil.AddDepthFlags(cmd)
	cmd.Flags().Bool("wide", false, "show filter bottom, surface level and tube top")
	cmd.Flags().Bool("no-headers", false, "omit table headers")

	return cmd
}

func runList(cmd *cobra.Command) error {
	filter, err := cmdutil.DepthFilter(cmd)
	if err != nil {
		return err
	}

	ws, err := cmdutil.OpenWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := cmd.Context()
	if err := ws.RequireWells(ctx); err != nil {
		return err
	}

	wells, err := ws.Wells.Filter(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list wells: %w", err)
	}
	slog.Debug("listing wells", "filter", filter.String(), "count", len(wells))

	formatter, err := cmdutil.NewFormatter(cmd, ws.Config)
	if err != nil {
		return err
	}
	return formatter.FormatWells(cmd.OutOrStdout(), wells)
}
