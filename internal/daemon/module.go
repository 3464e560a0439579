package daemon

import (
	"context"
	"os"

	"github.com/matheus3301/wexport/internal/bus"
	"github.com/matheus3301/wexport/internal/config"
	"github.com/matheus3301/wexport/internal/logging"
	"github.com/matheus3301/wexport/internal/pipeline"
	"github.com/matheus3301/wexport/internal/status"
	"github.com/matheus3301/wexport/internal/store"
	"github.com/matheus3301/wexport/internal/workspace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved daemon configuration passed to the fx module.
type Params struct {
	ConfigPath string // optional override; empty = use default
}

// Module returns the fx module for the daemon, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideStore,
			providePipeline,
			NewWatcher,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = workspace.ConfigPath()
	}
	return config.Load(path)
}

func provideLogger() (*zap.Logger, error) {
	return logging.New(workspace.LogPath(), "daemon")
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideStore(logger *zap.Logger) (*store.DB, error) {
	dbPath := workspace.IndexDBPath()
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func providePipeline(cfg *config.Config, db *store.DB, b *bus.Bus, logger *zap.Logger) *pipeline.Pipeline {
	return pipeline.New(cfg, db, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, cfg *config.Config, watcher *Watcher, machine *status.Machine, db *store.DB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if err := os.MkdirAll(cfg.Inbox, 0700); err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.DatasetRoot, 0700); err != nil {
				return err
			}
			if err := machine.Transition(status.Watching); err != nil {
				return err
			}
			logger.Info("watching inbox",
				zap.String("inbox", cfg.Inbox),
				zap.Duration("poll_interval", cfg.Poll()))
			watcher.Start(context.Background())
			return nil
		},
		OnStop: func(_ context.Context) error {
			watcher.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
