package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"chargebee-prices/adapters/chargebee"
	"chargebee-prices/api"
	"chargebee-prices/core/output"
	"chargebee-prices/core/ui"
	"chargebee-prices/internal/config"
	"chargebee-prices/internal/logging"
)

// runFlags are shared by the report commands
type runFlags struct {
	format       string
	concurrency  int
	cacheCoupons bool
	timeout      time.Duration
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format (json, cli); defaults to output.default_format")
	cmd.Flags().IntVarP(&f.concurrency, "concurrency", "c", 0, "items processed in parallel (1-32)")
	cmd.Flags().BoolVar(&f.cacheCoupons, "cache-coupons", false, "fetch the coupon list once per run")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "abort the run after this long (0 = no limit)")
}

// apply overlays the flags the user set on the loaded configuration
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) (output.Format, error) {
	flags := cmd.Flags()
	if flags.Changed("concurrency") {
		cfg.Catalog.Concurrency = f.concurrency
	}
	if flags.Changed("cache-coupons") {
		cfg.Catalog.CacheCoupons = f.cacheCoupons
	}
	format := cfg.Output.DefaultFormat
	if flags.Changed("format") {
		format = f.format
	}
	return output.ParseFormat(format)
}

// tally counts tolerated sub-fetch failures of a run
type tally struct {
	mu     sync.Mutex
	counts map[string]int
}

func (t *tally) SubfetchFailed(resource string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.counts == nil {
		t.counts = map[string]int{}
	}
	t.counts[resource]++
}

func (t *tally) total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// newHandler validates the configuration and wires the client
func newHandler(cfg *config.Config, failures *tally) (*api.Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := chargebee.New(cfg.ChargebeeClientConfig(), logging.Logger)
	if err != nil {
		return nil, err
	}
	opts := cfg.CatalogOptions()
	opts.Failures = failures
	return api.NewHandler(client, opts, nil, logging.Logger), nil
}

// runContext is canceled on SIGINT/SIGTERM and after timeout when set
func runContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// execute runs fn with a spinner for interactive cli output, then renders
// the report to stdout.
func execute(cmd *cobra.Command, flags *runFlags, label string, fn func(context.Context, *api.Handler) (*output.Report, error)) error {
	cfg := config.Get()
	format, err := flags.apply(cmd, cfg)
	if err != nil {
		return err
	}

	failures := &tally{}
	h, err := newHandler(cfg, failures)
	if err != nil {
		return err
	}

	ctx, cancel := runContext(flags.timeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	interactive := format == output.FormatCLI && isTerminal(stderr) && !verbose
	var spinner *ui.Spinner
	if interactive {
		spinner = ui.NewWriter(stderr, false).NewSpinner(label)
		spinner.Start()
	}

	start := time.Now()
	report, err := fn(ctx, h)
	if spinner != nil {
		spinner.Stop(err == nil)
	}
	if err != nil {
		return err
	}
	report.Duration = time.Since(start)

	if n := failures.total(); n > 0 && format == output.FormatCLI {
		ui.NewWriter(stderr, !interactive).Warning("%d optional lookups failed; affected fields are omitted", n)
	}

	formatters := output.NewRegistry()
	formatters.Register(output.NewCLIFormatter(!isTerminal(cmd.OutOrStdout())))
	return formatters.Render(cmd.OutOrStdout(), format, report)
}
