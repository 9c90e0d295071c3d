package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"scig/internal/descriptor"
	"scig/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	r, err := newRunner()
	if err != nil {
		return err
	}

	report, err := r.Validate(ctx, args[0])
	if err != nil {
		logger.Error("validation failed", zap.String("file", args[0]), zap.Error(err))
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d descriptors OK\n", report.Location, report.Descriptors)
	printSolids(cmd, report)
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	r, err := newRunner()
	if err != nil {
		return err
	}

	report, err := r.Run(ctx, args[0])
	if err != nil {
		logger.Error("build failed", zap.String("file", args[0]), zap.Error(err))
		return err
	}

	logger.Info("build complete",
		zap.String("file", report.Location),
		zap.Int("volumes", report.Published),
		zap.String("factory", string(report.Factory)),
		zap.String("run_id", report.RunID.String()),
		zap.Duration("parse", report.Duration),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: published %d volumes to %s (run %s)\n",
		report.Location, report.Published, report.Factory, report.RunID)
	printSolids(cmd, report)
	return nil
}

func printSolids(cmd *cobra.Command, report pipeline.Report) {
	kinds := make([]descriptor.Kind, 0, len(report.Solids))
	for k := range report.Solids {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %d\n", k, report.Solids[k])
	}
}
