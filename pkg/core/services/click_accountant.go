package services

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	DefaultClickWorkers   = 4
	DefaultClickQueueSize = 1024
	DefaultClickTimeout   = 5 * time.Second
)

// ClickIncrementer is the slice of the repository the accountant needs.
type ClickIncrementer interface {
	IncrementClicks(ctx context.Context, code string) error
}

// ClickAccountant applies click increments on a pool of workers so that
// redirects never wait on the store. Clicks are best effort: a full queue,
// a closed accountant or a failing store drops the click with a log line.
type ClickAccountant struct {
	repo    ClickIncrementer
	timeout time.Duration
	queue   chan string
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewClickAccountant(repo ClickIncrementer, workers, queueSize int, timeout time.Duration) *ClickAccountant {
	if workers < 1 {
		workers = DefaultClickWorkers
	}
	if queueSize < 1 {
		queueSize = DefaultClickQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultClickTimeout
	}

	a := &ClickAccountant{
		repo:    repo,
		timeout: timeout,
		queue:   make(chan string, queueSize),
	}

	log.Printf("Starting %d click worker(s)", workers)
	a.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go a.work(i)
	}
	return a
}

// RecordClick never blocks.
func (a *ClickAccountant) RecordClick(code string) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		log.Printf("Click for %q dropped: accountant closed", code)
		return
	}

	select {
	case a.queue <- code:
	default:
		log.Printf("Click for %q dropped: queue full", code)
	}
}

// Close stops accepting clicks and waits until queued ones are applied.
func (a *ClickAccountant) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	a.wg.Wait()
}

func (a *ClickAccountant) work(id int) {
	defer a.wg.Done()
	for code := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.repo.IncrementClicks(ctx, code); err != nil {
			log.Printf("[click worker %d] could not record click for %q: %v", id, code, err)
		}
		cancel()
	}
}
