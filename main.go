package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"shopintent/config"
	"shopintent/experiment"
	"shopintent/logging"
	"shopintent/ml"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: shopping data")
		return 1
	}
	dataPath := args[0]
	errLog := log.New(stderr, "", log.LstdFlags)

	// 1. Load config
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		errLog.Printf("Failed to load config: %v", err)
		return 1
	}

	// 2. Initialize logger
	logger, err := logging.New(cfg.Log)
	if err != nil {
		errLog.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	runner, closeHistory, err := experiment.FromConfig(cfg, logger)
	if err != nil {
		logger.Error("failed to set up experiment", zap.Error(err))
		return 1
	}
	defer closeHistory()

	// 3. Train on 60%, evaluate on the held-out 40%
	result, err := runner.Run(context.Background(), dataPath)
	if err != nil {
		logger.Error("evaluation failed", zap.String("path", dataPath), zap.Error(err))
		return 1
	}

	if err := ml.WriteReport(stdout, result); err != nil {
		logger.Error("failed to write report", zap.Error(err))
		return 1
	}
	return 0
}
