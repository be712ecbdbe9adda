package store

import (
	"errors"
	"sync"

	"github.com/i474232898/weather-plant-advisor/internal/weather"
)

var (
	// ErrClosed is returned after Close has been called.
	ErrClosed = errors.New("summary store closed")
)

type op struct {
	fn   func(*weather.DaySummary)
	done chan struct{}
}

// SummaryStore owns the DaySummary on a single goroutine. Mutations and reads
// are submitted as closures and run one at a time in submission order, so
// the summary itself needs no lock.
type SummaryStore struct {
	ops     chan op
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewSummaryStore starts the owner goroutine with initial as the summary.
func NewSummaryStore(initial weather.DaySummary) *SummaryStore {
	s := &SummaryStore{
		ops:     make(chan op),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run(initial)
	return s
}

func (s *SummaryStore) run(summary weather.DaySummary) {
	defer close(s.stopped)
	for {
		select {
		case o := <-s.ops:
			o.fn(&summary)
			close(o.done)
		case <-s.quit:
			return
		}
	}
}

func (s *SummaryStore) exec(fn func(*weather.DaySummary)) error {
	o := op{fn: fn, done: make(chan struct{})}
	select {
	case s.ops <- o:
	case <-s.quit:
		return ErrClosed
	}
	<-o.done
	return nil
}

// Update applies fn to the summary and waits for it to finish.
func (s *SummaryStore) Update(fn func(*weather.DaySummary)) error {
	return s.exec(fn)
}

// Snapshot returns a copy of the current summary.
func (s *SummaryStore) Snapshot() (weather.DaySummary, error) {
	var out weather.DaySummary
	err := s.exec(func(d *weather.DaySummary) {
		out = *d
	})
	return out, err
}

// Close stops the owner goroutine. Pending and later calls return ErrClosed.
func (s *SummaryStore) Close() {
	s.once.Do(func() {
		close(s.quit)
	})
	<-s.stopped
}

var _ weather.Store = (*SummaryStore)(nil)
