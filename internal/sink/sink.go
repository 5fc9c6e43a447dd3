// Package sink delivers the preview selection when the user saves.
// Sinks only surface the computed entries; nothing is written back to the board.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/h0rv/imgboard/internal/domain"
	"github.com/h0rv/imgboard/internal/logger"
)

// Batch is one saved preview selection.
type Batch struct {
	ID      string                `json:"id"`
	SavedAt time.Time             `json:"saved_at"`
	Entries []domain.PreviewEntry `json:"entries"`
}

// NewBatch stamps entries with a fresh batch ID and the current time.
func NewBatch(entries []domain.PreviewEntry) Batch {
	if entries == nil {
		entries = []domain.PreviewEntry{}
	}
	return Batch{
		ID:      uuid.NewString(),
		SavedAt: time.Now().UTC(),
		Entries: entries,
	}
}

// Sink receives saved preview batches.
type Sink interface {
	Commit(ctx context.Context, batch Batch) error
}

// LogSink writes each entry of a batch to the logger.
type LogSink struct {
	log logger.Logger
}

// NewLogSink creates a sink that logs batches.
func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log.WithComponent("save")}
}

// Commit logs the batch header and one line per entry.
func (s *LogSink) Commit(ctx context.Context, batch Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info("preview saved", logger.WithField("batch", batch.ID), logger.WithField("entries", len(batch.Entries)))
	for i, e := range batch.Entries {
		s.log.Info("preview entry",
			logger.WithField("batch", batch.ID),
			logger.WithField("position", i),
			logger.WithField("section", e.SectionOr("-")),
			logger.WithField("value", e.Value),
		)
	}
	return nil
}

// JSONSink writes batches as indented JSON documents.
// Concurrent commits are serialized.
type JSONSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJSONSink creates a sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w}
}

// Commit encodes the batch to the writer.
func (s *JSONSink) Commit(ctx context.Context, batch Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(batch); err != nil {
		return fmt.Errorf("failed to write preview batch: %w", err)
	}
	return nil
}
