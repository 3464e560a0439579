// Package daemon runs the inbox watcher: a long-lived process that polls a
// drop directory for export zips and feeds them through the pipeline.
package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matheus3301/wexport/internal/bus"
	"github.com/matheus3301/wexport/internal/config"
	"github.com/matheus3301/wexport/internal/pipeline"
	"github.com/matheus3301/wexport/internal/status"
	"github.com/matheus3301/wexport/internal/workspace"
	"go.uber.org/zap"
)

// Watcher polls the inbox directory and processes each dropped zip. Handled
// zips move to inbox/processed, failures to inbox/failed so a bad archive is
// never retried in a loop.
type Watcher struct {
	cfg     *config.Config
	pipe    *pipeline.Pipeline
	machine *status.Machine
	bus     *bus.Bus
	logger  *zap.Logger

	stop chan struct{}
	done chan struct{}
}

// NewWatcher creates a watcher.
func NewWatcher(cfg *config.Config, pipe *pipeline.Pipeline, machine *status.Machine, b *bus.Bus, logger *zap.Logger) *Watcher {
	return &Watcher{
		cfg:     cfg,
		pipe:    pipe,
		machine: machine,
		bus:     b,
		logger:  logger,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins polling in the background. The first scan runs immediately.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop halts polling and waits for any in-flight scan to finish.
func (w *Watcher) Stop() {
	close(w.stop)
	<-w.done
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.cfg.Poll())
	defer ticker.Stop()

	w.scan()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan processes every zip currently sitting in the inbox.
func (w *Watcher) scan() {
	entries, err := os.ReadDir(w.cfg.Inbox)
	if err != nil {
		w.logger.Warn("inbox unreadable", zap.String("inbox", w.cfg.Inbox), zap.Error(err))
		w.toState(status.Degraded)
		return
	}

	var zips []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".zip") {
			continue
		}
		zips = append(zips, filepath.Join(w.cfg.Inbox, e.Name()))
	}
	if len(zips) == 0 {
		w.toState(status.Watching)
		return
	}

	w.toState(status.Processing)
	for _, zipPath := range zips {
		if err := w.process(zipPath); err != nil {
			w.logger.Error("export failed", zap.String("zip", zipPath), zap.Error(err))
			w.publish(bus.KindDaemonFailed, map[string]string{"zip": zipPath, "error": err.Error()})
			w.stash(zipPath, "failed")
			continue
		}
		w.stash(zipPath, "processed")
	}
	w.toState(status.Watching)
}

// process runs one zip through the pipeline. The dataset name comes from the
// zip's own filename; a dataset with an existing snapshot gets update
// semantics automatically.
func (w *Watcher) process(zipPath string) error {
	dataset, err := workspace.ResolveName("", zipPath)
	if err != nil {
		return fmt.Errorf("derive dataset name: %w", err)
	}

	w.logger.Info("processing export", zap.String("zip", zipPath), zap.String("dataset", dataset))
	res, err := w.pipe.Update(zipPath, dataset, "", "")
	if err != nil {
		return err
	}

	w.logger.Info("export processed",
		zap.String("dataset", res.Dataset),
		zap.Int("added", res.Added),
		zap.Int("total", res.Total),
		zap.Bool("update", res.IsUpdate))
	w.publish(bus.KindDaemonProcessed, res)
	return nil
}

// stash moves a handled zip into an inbox subdirectory.
func (w *Watcher) stash(zipPath, sub string) {
	dir := filepath.Join(w.cfg.Inbox, sub)
	if err := os.MkdirAll(dir, 0700); err != nil {
		w.logger.Warn("create stash dir", zap.String("dir", dir), zap.Error(err))
		return
	}
	dest := filepath.Join(dir, filepath.Base(zipPath))
	if err := os.Rename(zipPath, dest); err != nil {
		w.logger.Warn("move zip", zap.String("zip", zipPath), zap.Error(err))
	}
}

func (w *Watcher) toState(s status.State) {
	if w.machine.Current() == s {
		return
	}
	if err := w.machine.Transition(s); err != nil {
		w.logger.Warn("state transition rejected", zap.Error(err))
	}
}

func (w *Watcher) publish(kind string, payload any) {
	if w.bus == nil {
		return
	}
	w.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}
