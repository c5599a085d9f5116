// Package crawl implements the crawl command: a one-shot or cron-scheduled
// crawl of the configured question bank categories.
package crawl

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/mcqer/cmd/common"
	"github.com/jonesrussell/mcqer/internal/crawler"
	"github.com/jonesrussell/mcqer/internal/extractor"
	"github.com/jonesrussell/mcqer/internal/fetcher"
	"github.com/jonesrussell/mcqer/internal/inliner"
	"github.com/jonesrussell/mcqer/internal/logger"
	"github.com/jonesrussell/mcqer/internal/pagination"
)

type options struct {
	categories []string
	workers    int
	schedule   string
}

// Command returns the crawl command.
func Command() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the question bank and store new questions",
		Long: `Crawl every configured category, section and page of the question bank,
extract the questions, inline their images and store the ones not seen before.

With --schedule (or crawler.schedule) the crawl repeats on a cron schedule
until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.categories, "category", nil, "category to crawl (repeatable, default all configured)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "pages processed concurrently per section (default crawler.page_workers)")
	cmd.Flags().StringVar(&opts.schedule, "schedule", "", "cron expression for recurring crawls (default crawler.schedule)")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}
	defer func() { _ = deps.Logger.Sync() }()

	if len(opts.categories) > 0 {
		deps.Config.Crawler.Categories = opts.categories
	}
	if opts.workers > 0 {
		deps.Config.Crawler.PageWorkers = opts.workers
	}
	if opts.schedule != "" {
		deps.Config.Crawler.Schedule = opts.schedule
	}
	if validateErr := deps.Config.Crawler.Validate(); validateErr != nil {
		return validateErr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := common.OpenStore(ctx, deps)
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := Build(deps, store, progressPrinter(cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	if deps.Config.Crawler.Schedule != "" {
		return schedule(ctx, deps, c)
	}

	summary, err := c.Run(ctx)
	printSummary(cmd.OutOrStdout(), summary)
	return err
}

// Build wires the fetcher, resolver, extractor and inliner into a Crawler
// that writes to store.
func Build(deps common.CommandDeps, store crawler.QuestionStore, progress crawler.ProgressFunc) (*crawler.Crawler, error) {
	cfg := deps.Config
	fetchCfg := cfg.Crawler.FetcherConfig()

	var robots fetcher.RobotsAllower
	if fetchCfg.RespectRobotsTxt {
		robots = fetcher.NewRobotsChecker(nil, fetchCfg)
	}
	f := fetcher.New(fetchCfg, robots, deps.Logger)

	in, err := inliner.New(f, cfg.InlinerSettings(), deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("create inliner: %w", err)
	}

	return crawler.New(crawler.Params{
		Config: crawler.Config{
			BaseURL:     cfg.Crawler.BaseURL,
			Categories:  cfg.Crawler.Categories,
			PageWorkers: cfg.Crawler.PageWorkers,
		},
		Fetcher:   f,
		Resolver:  pagination.NewResolver(f, cfg.Selectors.Pagination, deps.Logger),
		Extractor: extractor.New(cfg.Selectors.Question, cfg.Crawler.SourceName),
		Inliner:   in,
		Store:     store,
		Logger:    deps.Logger,
		Progress:  progress,
	})
}

// schedule runs c on the configured cron schedule until ctx ends. A run
// still in progress when the next one is due is not overlapped.
func schedule(ctx context.Context, deps common.CommandDeps, c *crawler.Crawler) error {
	cronLog := cronLogger{log: deps.Logger}
	sched := cron.New(cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)))

	_, err := sched.AddFunc(deps.Config.Crawler.Schedule, func() {
		if _, runErr := c.Run(ctx); runErr != nil {
			deps.Logger.Error("Scheduled crawl failed", logger.Error(runErr))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule crawl: %w", err)
	}

	deps.Logger.Info("Crawl scheduled", logger.String("schedule", deps.Config.Crawler.Schedule))
	sched.Start()
	<-ctx.Done()

	// Wait for a running crawl to observe the cancellation.
	<-sched.Stop().Done()
	deps.Logger.Info("Scheduler stopped")

	return nil
}

func progressPrinter(w io.Writer) crawler.ProgressFunc {
	return func(ev crawler.Event) {
		_, _ = fmt.Fprintln(w, ev.String())
	}
}

func printSummary(w io.Writer, s crawler.Summary) {
	_, _ = fmt.Fprintf(w,
		"Run %s: %d categories, %d sections, %d pages, %d questions written, %d duplicates, %d skipped, %d failures in %s\n",
		s.RunID, s.Categories, s.Sections, s.Pages, s.Written, s.Duplicates, s.Skipped, s.Failures, s.Duration.Round(time.Millisecond),
	)
}
