package main

import (
	"context"
	"fmt"

	"scig/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchBuild bool

// watchCmd re-runs the pipeline whenever the descriptor file changes
var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-validate (or rebuild) a descriptor file on every change",
	Long: `Runs once at start, then watches the file and runs again after each
change settles. Use --build to publish instead of only validating.
Parse errors are reported and watching continues. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	handler := watchHandler(cmd)

	// Initial pass; a bad file still starts the watcher.
	_ = handler(ctx, args[0])

	w, err := watch.New(args[0], cfg.GetWatchDebounce(), handler)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s (Ctrl+C to stop)\n", w.Path())
	<-ctx.Done()

	stats := w.Stats()
	logger.Info("watch stopped",
		zap.String("file", w.Path()),
		zap.Int("events", stats.Events),
		zap.Int("runs", stats.Runs),
		zap.Int("errors", stats.Errors),
	)
	return nil
}

func watchHandler(cmd *cobra.Command) watch.Handler {
	return func(ctx context.Context, path string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		if watchBuild {
			report, err := r.Run(ctx, path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "build failed: %v\n", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: published %d volumes (run %s)\n", path, report.Published, report.RunID)
			return nil
		}
		report, err := r.Validate(ctx, path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "invalid: %v\n", err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d descriptors OK\n", path, report.Descriptors)
		return nil
	}
}
