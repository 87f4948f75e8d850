package experiment

import (
	"go.uber.org/zap"

	"shopintent/config"
	"shopintent/db"
	"shopintent/pipeline"
)

// FromConfig wires a Runner from configuration. The returned close function releases the
// history database, if one was opened.
func FromConfig(cfg *config.Config, logger *zap.Logger) (*Runner, func() error, error) {
	loader, err := pipeline.NewLoader(cfg.Cache.Size, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []Option{
		WithSeed(cfg.Split.Seed),
		WithTestSize(cfg.Split.TestSize),
	}
	closeFn := func() error { return nil }
	if cfg.History.Enabled {
		store, err := db.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, WithHistory(store))
		closeFn = store.Close
		logger.Info("run history enabled", zap.String("path", cfg.History.Path))
	}
	return NewRunner(loader, logger, opts...), closeFn, nil
}
