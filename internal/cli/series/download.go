package series

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/aryankumar/brogw/internal/cli/cmdutil"
	"github.com/aryankumar/brogw/internal/download"
	"github.com/aryankumar/brogw/internal/metrics"
	"github.com/aryankumar/brogw/internal/output"
	"github.com/aryankumar/brogw/internal/registry"
	"github.com/aryankumar/brogw/internal/util"
	"github.com/aryankumar/brogw/internal/wellstore"
	"github.com/aryankumar/brogw/internal/workspace"
)

type downloadOptions struct {
	keys       []string
	yes        bool
	parallel   int
	jobTimeout time.Duration
}

func newDownloadCmd() *cobra.Command {
	var opts downloadOptions

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the series of the selected wells",
		Long: `Download the measurement series of the selected wells. Without --well all
wells matching the depth filter are selected. Wells already in the cache are
skipped.

At most --parallel downloads run at the same time. Press Ctrl-C to stop
starting new downloads; downloads already running finish and are kept.
Downloads of more than 20 wells ask for confirmation unless --yes is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, opts)
		},
	}

	cmdutil.AddDepthFlags(cmd)
	cmd.Flags().StringSliceVar(&opts.keys, "well", nil, "well key to download (repeatable, overrides the depth filter)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "skip the confirmation prompt for large downloads")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 0, "maximum concurrent downloads (default from config, 8)")
	cmd.Flags().DurationVar(&opts.jobTimeout, "job-timeout", 0, "timeout per well (default from config, 60s)")
	cmd.Flags().Bool("wide", false, "show error details in the result table")

	return cmd
}

func runDownload(cmd *cobra.Command, opts downloadOptions) error {
	logger := slog.Default()
	ctx := cmd.Context()

	filter, err := cmdutil.DepthFilter(cmd)
	if err != nil {
		return err
	}

	ws, err := cmdutil.OpenWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	if err := ws.RequireWells(ctx); err != nil {
		return err
	}

	cfg := ws.Config
	parallel := cfg.Defaults.Parallel
	if cmd.Flags().Changed("parallel") {
		parallel = opts.parallel
	}
	if parallel < 1 {
		return util.NewValidationError("parallel", parallel, "must be at least 1")
	}
	jobTimeout := cfg.Defaults.JobTimeout
	if cmd.Flags().Changed("job-timeout") {
		jobTimeout = opts.jobTimeout
	}

	wells, err := selectWells(ctx, ws, opts.keys, filter)
	if err != nil {
		return err
	}
	if len(wells) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "No wells match %s\n", filter)
		return nil
	}

	mgr := download.NewManager(ws.Registry, ws.Cache,
		download.WithParallel(parallel),
		download.WithJobTimeout(jobTimeout),
		download.WithPollInterval(cfg.Defaults.PollInterval),
		download.WithLogger(logger))

	plan, err := mgr.Plan(ctx, wells)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colors := output.NewColorScheme(out, cfg.Defaults.NoColor)

	if len(plan.Jobs) == 0 {
		fmt.Fprintln(out, colors.Success("All %d wells already downloaded", len(plan.Skipped)))
		return nil
	}

	if plan.NeedsConfirmation() && !opts.yes {
		question := fmt.Sprintf("You are about to download %d wells (%d already downloaded). Continue?",
			len(plan.Jobs), len(plan.Skipped))
		if !cmdutil.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), question) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Download cancelled")
			return nil
		}
	}

	stopMetrics := serveMetrics(ctx, cfg.Metrics.Addr, logger)
	defer stopMetrics()

	fmt.Fprintf(cmd.ErrOrStderr(), "Downloading %d wells with %d parallel requests (Ctrl-C to stop)...\n",
		len(plan.Jobs), min(parallel, len(plan.Jobs)))

	report, err := mgr.Run(ctx, plan, progressPrinter(cmd.ErrOrStderr()))
	if err != nil && !errors.Is(err, download.ErrNothingToDownload) {
		return err
	}

	formatter, err := cmdutil.NewFormatter(cmd, cfg)
	if err != nil {
		return err
	}
	if err := formatter.FormatOutcomes(out, report.Outcomes); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, colors.StatusColor(report.Failed > 0 || report.Cancelled)("%s", report.String()))

	if report.Cancelled {
		return fmt.Errorf("%w: %d wells not started", util.ErrCancelled, report.NotStarted)
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", report.Failed, len(plan.Jobs))
	}
	return nil
}

// selectWells returns the wells named by keys, or the wells matching the depth filter
func selectWells(ctx context.Context, ws *workspace.Workspace, keys []string, filter wellstore.DepthFilter) ([]registry.Well, error) {
	if len(keys) > 0 {
		return ws.Wells.ByKeys(ctx, keys)
	}
	return ws.Wells.Filter(ctx, filter)
}

// progressPrinter reports download progress on w
func progressPrinter(w io.Writer) download.ProgressFunc {
	return func(completed, total int) {
		fmt.Fprintf(w, "  %d/%d wells done\n", completed, total)
	}
}

// serveMetrics starts the metrics endpoint for the duration of a download
func serveMetrics(ctx context.Context, addr string, logger *slog.Logger) func() {
	if addr == "" {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := metrics.Serve(ctx, addr, logger); err != nil {
			logger.Warn("metrics endpoint failed", "addr", addr, "error", err)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
