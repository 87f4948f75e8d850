package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"shopintent/config"
	"shopintent/experiment"
	"shopintent/logging"
	"shopintent/ml"
)

const (
	// Editors tend to emit several events per save.
	settleDelay = 200 * time.Millisecond
	recentRuns  = 5
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: watch data")
		os.Exit(1)
	}

	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	runner, closeHistory, err := experiment.FromConfig(cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up experiment", zap.Error(err))
	}
	defer closeHistory()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logHistory(ctx, runner, logger)
	if err := watch(ctx, runner, os.Args[1], os.Stdout, logger); err != nil {
		logger.Error("watch stopped", zap.Error(err))
	}
	logger.Info("exiting")
}

func logHistory(ctx context.Context, runner *experiment.Runner, logger *zap.Logger) {
	runs, err := runner.RecentRuns(ctx, recentRuns)
	if err != nil {
		logger.Warn("failed to read run history", zap.Error(err))
		return
	}
	for _, run := range runs {
		logger.Debug("previous run",
			zap.String("id", run.ID),
			zap.String("path", run.DataPath),
			zap.Int("correct", run.Correct),
			zap.Int("incorrect", run.Incorrect),
			zap.Float64("sensitivity", run.Sensitivity),
			zap.Float64("specificity", run.Specificity),
			zap.Time("finished", run.FinishedAt))
	}
}

// watch evaluates dataPath once, then again each time the file settles after a change.
// It returns nil when ctx is cancelled.
func watch(ctx context.Context, runner *experiment.Runner, dataPath string, out io.Writer, logger *zap.Logger) error {
	abs, err := filepath.Abs(dataPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory so atomic replace-by-rename saves are seen too.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	evaluate(ctx, runner, abs, out, logger)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("data file changed", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(settleDelay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(settleDelay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			evaluate(ctx, runner, abs, out, logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func evaluate(ctx context.Context, runner *experiment.Runner, path string, out io.Writer, logger *zap.Logger) {
	result, err := runner.Run(ctx, path)
	if err != nil {
		logger.Error("evaluation failed", zap.String("path", path), zap.Error(err))
		return
	}
	if err := ml.WriteReport(out, result); err != nil {
		logger.Error("failed to write report", zap.Error(err))
	}
}
