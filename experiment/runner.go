package experiment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shopintent/db"
	"shopintent/ml"
	"shopintent/pipeline"
)

// Runner loads a session file, trains on a random split and evaluates the held-out part.
type Runner struct {
	loader   *pipeline.Loader
	history  *db.RunStore
	logger   *zap.Logger
	testSize float64
	seed     int64
}

type Option func(*Runner)

// WithHistory records every successful run in store.
func WithHistory(store *db.RunStore) Option {
	return func(r *Runner) {
		r.history = store
	}
}

// WithSeed fixes the split. Zero keeps the time-seeded default.
func WithSeed(seed int64) Option {
	return func(r *Runner) {
		r.seed = seed
	}
}

func WithTestSize(size float64) Option {
	return func(r *Runner) {
		r.testSize = size
	}
}

func NewRunner(loader *pipeline.Loader, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		loader:   loader,
		logger:   logger,
		testSize: ml.DefaultTestSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Run(ctx context.Context, path string) (*ml.Result, error) {
	started := time.Now()

	ds, err := r.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	split, err := ml.TrainTestSplit(ds, r.testSize, ml.NewRand(r.seed))
	if err != nil {
		return nil, fmt.Errorf("split data: %w", err)
	}
	r.logger.Debug("split dataset",
		zap.Int("train", len(split.TrainLabels)),
		zap.Int("test", len(split.TestLabels)),
		zap.Int64("seed", r.seed))

	model, err := ml.TrainModel(split.TrainEvidence, split.TrainLabels)
	if err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	predictions, err := model.Predict(split.TestEvidence)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	result, err := score(split, predictions)
	if err != nil {
		return nil, err
	}
	if summary, err := ml.ConfusionSummary(split.TestLabels, predictions); err == nil {
		r.logger.Debug("confusion matrix\n" + summary)
	}
	r.logger.Info("evaluation finished",
		zap.Int("correct", result.Correct),
		zap.Int("incorrect", result.Incorrect),
		zap.Float64("sensitivity", result.Sensitivity),
		zap.Float64("specificity", result.Specificity),
		zap.Duration("elapsed", time.Since(started)))

	if r.history != nil {
		run := db.NewRun(path, r.seed, result, started, time.Now())
		if err := r.history.SaveRun(ctx, run); err != nil {
			r.logger.Warn("failed to record run", zap.Error(err))
		} else {
			r.logger.Debug("run recorded", zap.String("id", run.ID))
		}
	}
	return result, nil
}

func score(split *ml.Split, predictions []int) (*ml.Result, error) {
	correct, incorrect, err := ml.CountCorrect(split.TestLabels, predictions)
	if err != nil {
		return nil, err
	}
	sensitivity, specificity, err := ml.Evaluate(split.TestLabels, predictions)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	return &ml.Result{
		TrainSize:   len(split.TrainLabels),
		TestSize:    len(split.TestLabels),
		Correct:     correct,
		Incorrect:   incorrect,
		Sensitivity: sensitivity,
		Specificity: specificity,
	}, nil
}

// RecentRuns returns up to limit recorded runs, newest first. Without a history store it returns nil.
func (r *Runner) RecentRuns(ctx context.Context, limit int) ([]db.Run, error) {
	if r.history == nil {
		return nil, nil
	}
	return r.history.ListRuns(ctx, limit)
}
