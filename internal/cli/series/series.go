package series

import (
	"github.com/spf13/cobra"
)

// NewSeriesCmd creates the series parent command
func NewSeriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Download, plot and export measurement series",
		Long: `Download the groundwater level series of the workspace wells with a bounded
number of concurrent requests, then plot them or export them to Excel.

Downloaded series are cached, so only wells that were not downloaded before
are requested again.`,
		Example: `  # Download all wells with a filter top between -10 and -2 m NAP
  brogw series download --min-depth -10 --max-depth -2

  # Download two specific wells without confirmation
  brogw series download --well GMW000000012345_1_B38A0001 --well GMW000000012346_2_B38A0002 -y

  # Plot everything downloaded so far
  brogw series plot --out levels.png

  # Export to an Excel workbook with a chart
  brogw series export`,
	}

	cmd.AddCommand(newDownloadCmd())
	cmd.AddCommand(newPlotCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}
