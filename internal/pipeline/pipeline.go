// Package pipeline orchestrates one conversion run: extract the export,
// detect the transcript format, parse, reconcile against the persisted
// snapshot, then write every output and index the result.
package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/wexport/internal/archive"
	"github.com/matheus3301/wexport/internal/bus"
	"github.com/matheus3301/wexport/internal/chat"
	"github.com/matheus3301/wexport/internal/config"
	"github.com/matheus3301/wexport/internal/export"
	"github.com/matheus3301/wexport/internal/lock"
	"github.com/matheus3301/wexport/internal/media"
	"github.com/matheus3301/wexport/internal/parse"
	"github.com/matheus3301/wexport/internal/render"
	"github.com/matheus3301/wexport/internal/store"
	"github.com/matheus3301/wexport/internal/workspace"
	"go.uber.org/zap"
)

// Pipeline runs conversions and updates. The store and bus are optional;
// when nil, indexing and event publication are skipped.
type Pipeline struct {
	cfg    *config.Config
	db     *store.DB
	bus    *bus.Bus
	logger *zap.Logger
}

// New creates a pipeline.
func New(cfg *config.Config, db *store.DB, b *bus.Bus, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, db: db, bus: b, logger: logger}
}

// Result describes a completed pipeline run.
type Result struct {
	Dataset    string
	DatasetDir string
	HTMLPath   string
	Title      string
	Added      int
	Total      int
	IsUpdate   bool
}

// Convert processes an export zip as a first-time conversion. It fails when
// the dataset already holds a snapshot; Update is the merging entry point.
func (p *Pipeline) Convert(zipPath, dataset, infoPath string) (*Result, error) {
	datasetDir := workspace.DatasetDir(p.cfg.DatasetRoot, dataset)
	if _, err := os.Stat(workspace.SnapshotPath(datasetDir)); err == nil {
		return nil, fmt.Errorf("dataset %q already exists, use update to merge a newer export", dataset)
	}
	return p.run(zipPath, dataset, infoPath, "none")
}

// Update merges a later export of the same conversation into an existing
// dataset, highlighting the newly added messages. When no usable snapshot
// exists the run degrades to a first-time conversion.
func (p *Pipeline) Update(zipPath, dataset, infoPath, highlight string) (*Result, error) {
	if highlight == "" {
		highlight = p.cfg.Highlight
	}
	return p.run(zipPath, dataset, infoPath, highlight)
}

func (p *Pipeline) run(zipPath, dataset, infoPath, highlight string) (*Result, error) {
	datasetDir, err := workspace.EnsureDataset(p.cfg.DatasetRoot, dataset)
	if err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}

	// One writer per dataset: reconcile must never run concurrently against
	// the same aggregate.
	lk, err := lock.Acquire(datasetDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lk.Release() }()

	p.publish(bus.KindConvertStarted, map[string]string{"zip": zipPath, "dataset": dataset})

	existing, err := chat.LoadSnapshot(workspace.SnapshotPath(datasetDir))
	if err != nil {
		return nil, err
	}

	exportDir := workspace.ExportDir(datasetDir)
	if err := archive.Extract(zipPath, exportDir); err != nil {
		return nil, err
	}

	chatFile, err := archive.FindChatFile(exportDir)
	if err != nil {
		return nil, err
	}

	batch, f, err := parse.ParseFile(chatFile)
	if err != nil {
		return nil, err
	}
	p.logger.Info("transcript parsed",
		zap.String("file", chatFile),
		zap.Int("messages", len(batch)),
		zap.Float64("format_confidence", f.Confidence))
	p.publish(bus.KindConvertParsed, len(batch))

	infoFile := archive.FindInfoFile(exportDir, infoPath)
	var infoText string
	title, description := "", ""
	if infoFile != "" {
		if data, err := os.ReadFile(infoFile); err == nil {
			infoText = string(data)
		}
		title, description = archive.ReadInfo(infoFile)
	}

	isUpdate := existing != nil
	c := existing
	if c == nil {
		c = chat.New(chat.NewMetadata("", title, description))
	} else {
		c.ClearNewFlags()
	}

	added := c.AddMessages(batch, isUpdate)
	p.logger.Info("batch reconciled",
		zap.Int("added", added),
		zap.Int("total", len(c.Messages)),
		zap.Bool("update", isUpdate))
	p.publish(bus.KindMergeCompleted, bus.MergeResult{
		Dataset:  dataset,
		Added:    added,
		Total:    len(c.Messages),
		IsUpdate: isUpdate,
	})

	if err := export.WriteAll(c, datasetDir); err != nil {
		return nil, err
	}

	listing, err := media.NewListing(exportDir)
	if err != nil {
		return nil, fmt.Errorf("scan media: %w", err)
	}
	if !isUpdate {
		// Everything is new on a first conversion; highlighting would mark
		// the entire page.
		highlight = "none"
	}
	if err := render.Render(c, listing, datasetDir, render.Options{
		Highlight: highlight,
		InfoText:  infoText,
	}); err != nil {
		return nil, err
	}
	p.publish(bus.KindRenderCompleted, workspace.HTMLPath(datasetDir))

	if err := p.index(dataset, c); err != nil {
		// The dataset outputs are complete; a broken index only degrades
		// list/search.
		p.logger.Warn("index update failed", zap.Error(err))
	}

	return &Result{
		Dataset:    dataset,
		DatasetDir: datasetDir,
		HTMLPath:   workspace.HTMLPath(datasetDir),
		Title:      c.Metadata.Title,
		Added:      added,
		Total:      len(c.Messages),
		IsUpdate:   isUpdate,
	}, nil
}

// index mirrors the chat into the sqlite index powering list and search.
func (p *Pipeline) index(dataset string, c *chat.Chat) error {
	if p.db == nil {
		return nil
	}
	meta := c.Metadata
	if err := p.db.UpsertChat(&store.Chat{
		ChatID:           meta.ChatID,
		Dataset:          dataset,
		Title:            meta.Title,
		Description:      meta.Description,
		MessageCount:     meta.MessageCount,
		ParticipantCount: meta.ParticipantCount,
		FirstTs:          unixMilli(meta.FirstTimestamp),
		LastTs:           unixMilli(meta.LastTimestamp),
	}); err != nil {
		return fmt.Errorf("upsert chat: %w", err)
	}

	rows := make([]store.Message, 0, len(c.Messages))
	for i := range c.Messages {
		m := &c.Messages[i]
		rows = append(rows, store.Message{
			Identity:     m.Identity,
			Sender:       m.Sender,
			Body:         m.Content,
			RawTimestamp: m.RawTimestamp,
			Timestamp:    unixMilli(m.When),
			MediaCount:   len(m.Media),
			IsSystem:     m.IsSystem(),
		})
	}
	if err := p.db.IndexMessages(meta.ChatID, rows); err != nil {
		return fmt.Errorf("index messages: %w", err)
	}
	return nil
}

func (p *Pipeline) publish(kind string, payload any) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
