package history

import (
	"sync"
	"time"
)

// Scheduler batches history writes behind two independent triggers: a timer
// and a pending-set size threshold. Repeated edits to the same pair collapse
// to one write because the pending set is keyed by signature. Close flushes,
// so every exit path persists what is pending.
type Scheduler struct {
	store      Store
	interval   time.Duration
	maxPending int

	mu      sync.Mutex
	pending map[string]Entry

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// flushErr keeps the first background flush failure for Close to report.
	flushErr error
}

// NewScheduler starts the timer loop immediately.
func NewScheduler(store Store, interval time.Duration, maxPending int) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxPending < 1 {
		maxPending = 20
	}
	s := &Scheduler{
		store:      store,
		interval:   interval,
		maxPending: maxPending,
		pending:    make(map[string]Entry),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go s.loop()
	return s
}

// Enqueue records an entry for write-behind. Reaching the size threshold
// flushes synchronously.
func (s *Scheduler) Enqueue(e Entry) error {
	s.mu.Lock()
	s.pending[e.Signature] = e
	full := len(s.pending) >= s.maxPending
	s.mu.Unlock()

	if full {
		return s.Flush()
	}
	return nil
}

// Flush writes everything pending right now.
func (s *Scheduler) Flush() error {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := make([]Entry, 0, len(s.pending))
	for _, e := range s.pending {
		batch = append(batch, e)
	}
	s.pending = make(map[string]Entry)
	s.mu.Unlock()

	return s.store.Upsert(batch)
}

// Close stops the timer loop and performs a final flush.
func (s *Scheduler) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done

	if err := s.Flush(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushErr
}

func (s *Scheduler) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Flush(); err != nil {
				s.mu.Lock()
				if s.flushErr == nil {
					s.flushErr = err
				}
				s.mu.Unlock()
			}
		case <-s.stop:
			return
		}
	}
}
