// Package schedule runs background jobs on fixed intervals or at a fixed
// time of day. The report exporter is its main customer:
//
//	schedule.Daily().At("03:00").Name("analytics-report").Run(report.RunDaily)
//	schedule.Every(15).Minutes().Run(syncTask)
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/genosys/pkg/logger"
)

// Task is a scheduled job body.
type Task func()

type entry struct {
	id       string
	interval time.Duration
	at       string // "HH:MM", daily entries only
	task     Task

	mu        sync.Mutex
	lastRun   time.Time
	running   bool
	noOverlap bool
}

// Schedule is the fluent builder for one entry.
type Schedule struct {
	e *entry
}

var (
	regMu   sync.Mutex
	entries []*entry
)

// Every starts a builder for an interval-based entry.
func Every(n int) *freqBuilder { return &freqBuilder{n: n} }

// Daily starts a builder for a once-a-day entry. Without At it fires at
// midnight UTC.
func Daily() *Schedule {
	return &Schedule{e: &entry{at: "00:00"}}
}

type freqBuilder struct{ n int }

func (f *freqBuilder) Minutes() *Schedule {
	return &Schedule{e: &entry{interval: time.Duration(f.n) * time.Minute}}
}

func (f *freqBuilder) Hours() *Schedule {
	return &Schedule{e: &entry{interval: time.Duration(f.n) * time.Hour}}
}

// At sets the UTC time of day ("HH:MM") for a daily entry.
func (s *Schedule) At(hhmm string) *Schedule {
	s.e.at = hhmm
	return s
}

// WithoutOverlapping skips a tick while the previous run is still going.
func (s *Schedule) WithoutOverlapping() *Schedule {
	s.e.noOverlap = true
	return s
}

// Name sets the identifier used in log lines.
func (s *Schedule) Name(id string) *Schedule {
	s.e.id = id
	return s
}

// Run registers the entry with the scheduler.
func (s *Schedule) Run(fn Task) {
	s.e.task = fn

	regMu.Lock()
	if s.e.id == "" {
		s.e.id = fmt.Sprintf("task-%d", len(entries)+1)
	}
	entries = append(entries, s.e)
	regMu.Unlock()
}

// Start begins dispatching in the background. Register entries first.
func Start(ctx context.Context) {
	go run(ctx)
	logger.Info("schedule: scheduler started")
}

func run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: scheduler stopped")
			return
		case now := <-ticker.C:
			regMu.Lock()
			current := make([]*entry, len(entries))
			copy(current, entries)
			regMu.Unlock()

			for _, e := range current {
				if e.due(now.UTC()) {
					e.dispatch()
				}
			}
		}
	}
}

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.at != "" {
		if now.Format("15:04") != e.at {
			return false
		}
		// At most once per day, despite the per-second tick.
		return e.lastRun.IsZero() || now.Sub(e.lastRun) > time.Minute
	}

	if e.lastRun.IsZero() {
		return true
	}
	return now.Sub(e.lastRun) >= e.interval
}

func (e *entry) dispatch() {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping task", "id", e.id)
		return
	}
	e.running = true
	e.lastRun = time.Now().UTC()
	e.mu.Unlock()

	go func() {
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", r)
			}
		}()

		logger.Info("schedule: running task", "id", e.id)
		e.task()
	}()
}
