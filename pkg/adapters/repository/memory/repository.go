// Package memory keeps links in process memory. Suitable for tests and
// single-process deployments that can afford to lose data on restart.
package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/murat/gimly/pkg/core/domain"
	"github.com/murat/gimly/pkg/ports"
)

type entry struct {
	link   domain.Link // ClickCount unused; clicks holds the live value
	clicks atomic.Int64
}

func (e *entry) snapshot() domain.Link {
	l := e.link
	l.ClickCount = e.clicks.Load()
	return l
}

type MemoryRepository struct {
	mu     sync.RWMutex
	byCode map[string]*entry
	order  []*entry
	seq    int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byCode: make(map[string]*entry)}
}

func (r *MemoryRepository) Create(ctx context.Context, link *domain.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCode[link.ShortID]; exists {
		return domain.ErrShortIDTaken
	}

	r.seq++
	link.ID = r.seq

	e := &entry{link: *link}
	e.clicks.Store(link.ClickCount)
	r.byCode[link.ShortID] = e
	r.order = append(r.order, e)
	return nil
}

func (r *MemoryRepository) GetByShortID(ctx context.Context, code string) (*domain.Link, error) {
	r.mu.RLock()
	e, ok := r.byCode[code]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}

	l := e.snapshot()
	return &l, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]domain.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]domain.Link, 0, len(r.order))
	for _, e := range r.order {
		links = append(links, e.snapshot())
	}
	return links, nil
}

// IncrementClicks only takes the read lock; the counter itself is atomic.
func (r *MemoryRepository) IncrementClicks(ctx context.Context, code string) error {
	r.mu.RLock()
	e, ok := r.byCode[code]
	r.mu.RUnlock()
	if !ok {
		return domain.ErrNotFound
	}

	e.clicks.Add(1)
	return nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}

// Ensure interface compliance
var _ ports.LinkRepository = (*MemoryRepository)(nil)
