package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"credit-sync/internal/report"
	"credit-sync/internal/sheet"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var inputPath string
	var outputPath string
	var author string
	var chooseAuthor bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill missing credits for the songs listed in a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			base, err := ctx.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			runID := uuid.NewString()
			logger := base.WithRun(runID[:8])

			entries, err := sheet.Read(inputPath)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			logger.Infof("Read %d entries from %s", len(entries), inputPath)

			if chooseAuthor {
				author, err = chooseAuthorInteractively(entries)
				if err != nil {
					return fmt.Errorf("select author: %w", err)
				}
			}
			selected := sheet.FilterByAuthor(entries, author)
			if strings.TrimSpace(author) != "" {
				logger.Infof("Selected %d/%d entries submitted by %s", len(selected), len(entries), author)
			}
			if len(selected) == 0 {
				logger.Warnf("No entries to process; exiting")
				return nil
			}

			lock, err := acquireRunLock(cfg.Paths.LockFile)
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warnf("Release run lock failed: %v", err)
				}
			}()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			started := time.Now()
			resolver := newResolver(cfg, logger)
			outcomes := newOrchestrator(cfg, resolver, logger).Run(runCtx, selected)
			logger.Infof("Processed %d/%d entries in %s (album credits cached: %d)",
				len(outcomes), len(selected), time.Since(started).Round(time.Millisecond), resolver.Cache().Len())

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Table(outcomes))
			fmt.Fprintln(out, report.Summary(outcomes))

			if strings.TrimSpace(outputPath) != "" {
				if err := report.WriteCSV(outputPath, outcomes); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				logger.Infof("Wrote report to %s", outputPath)
			}
			return runCtx.Err()
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input spreadsheet (.xlsx)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write a CSV report of the run to this file")
	cmd.Flags().StringVarP(&author, "filter", "f", "", "Only process rows submitted by this author (Autor_wpisu)")
	cmd.Flags().BoolVar(&chooseAuthor, "choose-author", false, "Choose the author interactively")
	_ = cmd.MarkFlagRequired("input")
	cmd.MarkFlagsMutuallyExclusive("filter", "choose-author")
	return cmd
}

// acquireRunLock keeps two runs from exporting to the traffic system at once.
func acquireRunLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another credit-sync run is in progress (lock %s)", path)
	}
	return lock, nil
}
