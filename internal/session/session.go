// Package session keeps everything one reading session needs in a single
// explicitly owned place, constructed once at startup and passed by
// reference.
package session

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tomepress/lectern/internal/config"
	"github.com/tomepress/lectern/internal/ebook"
	"github.com/tomepress/lectern/internal/history"
)

// Session is the per-run application state.
type Session struct {
	Cfg *config.Config
	Log *zap.Logger

	// Store is nil when history persistence is unavailable; progress then
	// lives in memory for the run.
	Store *history.Store

	// Record is the reading-history row for the open ebook.
	Record history.Record

	start time.Time
}

func New(cfg *config.Config, log *zap.Logger, store *history.Store, rec history.Record) *Session {
	return &Session{Cfg: cfg, Log: log, Store: store, Record: rec, start: time.Now()}
}

func (s *Session) Uptime() time.Duration { return time.Since(s.start) }

// Finish persists the final reading state and releases resources. Process
// exit must block on the history write, so this runs synchronously after
// the UI loop returns. eb may be nil when loading never completed.
func (s *Session) Finish(eb ebook.Ebook, progress float64) error {
	var err error

	if eb != nil {
		meta := eb.Meta()
		s.Record.Title = meta.Title
		s.Record.Author = meta.Creator
		if cerr := eb.Cleanup(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("ebook cleanup: %w", cerr))
		}
	}
	s.Record.Progress = progress
	s.Record.LastRead = time.Now()

	if s.Store != nil {
		if serr := s.Store.Save(s.Record); serr != nil {
			err = multierr.Append(err, serr)
		}
		if cerr := s.Store.Close(); cerr != nil {
			err = multierr.Append(err, cerr)
		}
	}

	s.Log.Debug("session finished",
		zap.Duration("elapsed", s.Uptime()),
		zap.Float64("progress", progress))
	_ = s.Log.Sync()
	return err
}
