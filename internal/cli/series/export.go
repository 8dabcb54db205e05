package series

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/aryankumar/brogw/internal/cache"
	"github.com/aryankumar/brogw/internal/cli/cmdutil"
	"github.com/aryankumar/brogw/internal/export"
	"github.com/aryankumar/brogw/internal/util"
)

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the downloaded series to Excel",
		Long: `Write all downloaded series to an Excel workbook with a metadata sheet,
the chart data, a line chart and the data credits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output .xlsx file (default BRO_GMW_<date>_<time>.xlsx)")

	return cmd
}

func runExport(cmd *cobra.Command, out string) error {
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

	now := time.Now()
	if out == "" {
		out = export.DefaultFileName(now)
	}

	result, err := export.WriteWorkbook(out, series, export.Options{Now: now, Logger: slog.Default()})
	if err != nil {
		return fmt.Errorf("failed to export workbook: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d wells (%d charted, %d rows) to %s\n",
		result.Wells, result.ChartedSeries, result.Rows, result.Path)
	return nil
}
