package series

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/aryankumar/brogw/internal/cache"
	"github.com/aryankumar/brogw/internal/cli/cmdutil"
	"github.com/aryankumar/brogw/internal/plot"
	"github.com/aryankumar/brogw/internal/util"
)

func newPlotCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot the downloaded series",
		Long:  `Render all downloaded series into one time series plot, one line per well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output PNG file (default BRO_GMW_plot_<date>.png)")

	return cmd
}

func runPlot(cmd *cobra.Command, out string) error {
	ws, err := cmdutil.OpenWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	series, err := cache.All(cmd.Context(), ws.Cache)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return util.ErrNoMeasurements
	}

	if out == "" {
		out = plot.DefaultFileName(time.Now())
	}

	drawn, err := plot.TimeSeries(out, plot.LinesFromSeries(series))
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}

	slog.Info("plot saved", "path", out, "wells", drawn)
	fmt.Fprintf(cmd.OutOrStdout(), "Plotted %d wells to %s\n", drawn, out)
	return nil
}
