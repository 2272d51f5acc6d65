package lsp

import (
	"time"

	"github.com/unnathi84/PatchWise/pkg/logging"
)

// indexSource is the slice of Session the waiter needs.
type indexSource interface {
	PumpPending() (bool, error)
	IndexPercentage() (int, bool)
}

// IndexWaiter decides when definition lookups can be trusted. The server
// answers best-effort before its background index completes, so the waiter
// polls progress notifications with adaptive backoff. Every exit is
// best-effort success: a stale index, a hard wall-clock ceiling or a read
// failure all end the wait with a log line, never an error. The review must
// not block indefinitely on indexing.
type IndexWaiter struct {
	MaxTotalWait time.Duration
	MaxStaleWait time.Duration
	Interval     time.Duration
	MaxInterval  time.Duration

	session indexSource
	logger  *logging.Logger
}

func NewIndexWaiter(session indexSource, logger *logging.Logger) *IndexWaiter {
	return &IndexWaiter{
		MaxTotalWait: 600 * time.Second,
		MaxStaleWait: 60 * time.Second,
		Interval:     time.Second,
		MaxInterval:  10 * time.Second,
		session:      session,
		logger:       logger,
	}
}

// Wait blocks until indexing reaches 100%, progress goes stale, or the hard
// ceiling elapses.
func (w *IndexWaiter) Wait() {
	start := time.Now()
	lastChange := start
	lastPercentage := -1
	interval := w.Interval

	for time.Since(start) < w.MaxTotalWait {
		read, err := w.session.PumpPending()
		if err != nil {
			w.logger.Debug("stopped waiting for indexing", "error", err)
			return
		}

		if pct, ok := w.session.IndexPercentage(); ok {
			if pct >= 100 {
				w.logger.Debug("background indexing complete")
				return
			}
			if pct != lastPercentage {
				lastPercentage = pct
				lastChange = time.Now()
				interval = w.Interval
			} else if time.Since(lastChange) > w.MaxStaleWait {
				w.logger.Warn("index progress stalled, proceeding best-effort",
					"percentage", pct, "stale", time.Since(lastChange).Round(time.Second))
				return
			}
		}

		if !read {
			time.Sleep(interval)
			interval *= 2
			if interval > w.MaxInterval {
				interval = w.MaxInterval
			}
		}
	}

	w.logger.Warn("background indexing did not complete in time, proceeding best-effort",
		"waited", time.Since(start).Round(time.Second))
}
