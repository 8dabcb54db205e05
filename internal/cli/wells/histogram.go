package wells

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aryankumar/brogw/internal/cli/cmdutil"
	"github.com/aryankumar/brogw/internal/plot"
	"github.com/aryankumar/brogw/internal/wellstore"
)

func newHistogramCmd() *cobra.Command {
	var (
		bins int
		png  string
	)

	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Show the distribution of filter depths",
		Long: `Show how the filter tops of the workspace wells are distributed. With
--png the histogram is also rendered to an image, highlighting the bins that
fall inside the --min-depth/--max-depth range.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistogram(cmd, bins, png)
		},
	}

	cmd.Flags().IntVar(&bins, "bins", wellstore.DefaultBins, "number of histogram bins")
	cmd.Flags().StringVar(&png, "png", "", "also render the histogram to this PNG file")
	cmdutil.AddDepthFlags(cmd)

	return cmd
}

func runHistogram(cmd *cobra.Command, bins int, png string) error {
	if bins < 1 {
		return fmt.Errorf("--bins must be at least 1, got %d", bins)
	}

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

	hist, err := ws.Wells.Histogram(ctx, bins)
	if err != nil {
		return err
	}

	formatter, err := cmdutil.NewFormatter(cmd, ws.Config)
	if err != nil {
		return err
	}
	if err := formatter.FormatHistogram(cmd.OutOrStdout(), hist); err != nil {
		return err
	}

	if filter.Active() {
		selected, err := ws.Wells.Filter(ctx, filter)
		if err != nil {
			return err
		}
		total, err := ws.Wells.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d wells match %s\n", len(selected), total, filter)
	}

	if png == "" {
		return nil
	}

	tops, err := ws.Wells.FilterTops(ctx)
	if err != nil {
		return err
	}
	if err := plot.FilterHistogram(png, tops, bins, filter.Min, filter.Max); err != nil {
		return fmt.Errorf("failed to render histogram: %w", err)
	}
	slog.Info("histogram saved", "path", png, "wells", len(tops))
	fmt.Fprintf(cmd.ErrOrStderr(), "Histogram saved to %s\n", png)
	return nil
}
