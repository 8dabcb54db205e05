package wells

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aryankumar/brogw/internal/cli/cmdutil"
	"github.com/aryankumar/brogw/internal/geo"
	"github.com/aryankumar/brogw/internal/output"
	"github.com/aryankumar/brogw/internal/workspace"
)

func newRetrieveCmd() *cobra.Command {
	var (
		bbox  string
		wgs84 bool
	)

	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Retrieve the wells inside a bounding box",
		Long: `Retrieve all groundwater monitoring wells inside a bounding box from the
registry. The wells replace whatever the workspace held before.

The box is "xmin,ymin,xmax,ymax" in RD New metres (EPSG:28992), or
"minLon,minLat,maxLon,maxLat" in degrees with --wgs84.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			extent, err := parseBBox(bbox, wgs84)
			if err != nil {
				return err
			}

			ws, err := cmdutil.OpenWorkspace(cmd)
			if err != nil {
				return err
			}
			defer ws.Close()

			return runRetrieve(cmd.Context(), ws, extent, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&bbox, "bbox", "", "bounding box xmin,ymin,xmax,ymax (required)")
	cmd.Flags().BoolVar(&wgs84, "wgs84", false, "interpret --bbox as minLon,minLat,maxLon,maxLat")
	_ = cmd.MarkFlagRequired("bbox")

	return cmd
}

func parseBBox(bbox string, wgs84 bool) (geo.Extent, error) {
	if wgs84 {
		return geo.ExtentFromWGS84(bbox)
	}
	return geo.ParseExtent(bbox)
}

func runRetrieve(ctx context.Context, ws *workspace.Workspace, extent geo.Extent, out io.Writer) error {
	logger := slog.Default()
	logger.Debug("retrieving wells", "extent", extent.String(), "registry", ws.Registry.BaseURL())

	wells, err := ws.Registry.ListWells(ctx, extent)
	if err != nil {
		return fmt.Errorf("failed to retrieve wells: %w", err)
	}

	if err := ws.Wells.ReplaceAll(ctx, extent, wells); err != nil {
		return err
	}

	logger.Info("wells retrieved", "count", len(wells), "extent", extent.String())

	colors := output.NewColorScheme(out, ws.Config.Defaults.NoColor)
	if len(wells) == 0 {
		fmt.Fprintln(out, colors.Warning("No wells found in %s", extent))
		return nil
	}
	fmt.Fprintln(out, colors.Success("Retrieved %d wells in %s", len(wells), extent))
	return nil
}
