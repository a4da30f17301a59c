package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/murat/gimly/pkg/adapters/repository/memory"
	"github.com/murat/gimly/pkg/core/domain"
	"github.com/murat/gimly/pkg/core/shortcode"
)

type flakyIncrementer struct {
	mu    sync.Mutex
	fails int
	ok    int
}

func (f *flakyIncrementer) IncrementClicks(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code == "bad" {
		f.fails++
		return errors.New("transient failure")
	}
	f.ok++
	return nil
}

func TestClickAccountant_CountsConcurrentResolutions(t *testing.T) {
	repo := memory.NewMemoryRepository()
	clicks := NewClickAccountant(repo, 4, 1024, time.Second)
	gen, _ := shortcode.New(shortcode.DefaultLength)
	svc := NewLinkService(repo, gen, clicks, DefaultMaxAttempts)
	ctx := context.Background()

	link, err := svc.Shorten(ctx, "https://example.com", "hot")
	if err != nil {
		t.Fatal(err)
	}
	other, err := svc.Shorten(ctx, "https://example.org", "cold")
	if err != nil {
		t.Fatal(err)
	}

	const k = 500
	var wg sync.WaitGroup
	wg.Add(k)
	for i := 0; i < k; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.Resolve(ctx, link.ShortID); err != nil {
				t.Errorf("Resolve: %v", err)
			}
		}()
	}
	wg.Wait()
	clicks.Close()

	got, err := svc.GetLink(ctx, link.ShortID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ClickCount != k {
		t.Errorf("ClickCount = %d, want %d", got.ClickCount, k)
	}

	cold, _ := svc.GetLink(ctx, other.ShortID)
	if cold.ClickCount != 0 {
		t.Errorf("unrelated ClickCount = %d, want 0", cold.ClickCount)
	}
}

func TestClickAccountant_FailuresAreDropped(t *testing.T) {
	inc := &flakyIncrementer{}
	clicks := NewClickAccountant(inc, 2, 16, time.Second)

	clicks.RecordClick("bad")
	clicks.RecordClick("good")
	clicks.RecordClick("bad")
	clicks.RecordClick("good")
	clicks.Close()

	if inc.fails != 2 || inc.ok != 2 {
		t.Errorf("fails = %d, ok = %d; want 2 and 2", inc.fails, inc.ok)
	}
}

func TestClickAccountant_MissingLinkIsDropped(t *testing.T) {
	repo := memory.NewMemoryRepository()
	clicks := NewClickAccountant(repo, 1, 4, time.Second)
	clicks.RecordClick("doesnotexist")
	clicks.Close()

	if _, err := repo.GetByShortID(context.Background(), "doesnotexist"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestClickAccountant_CloseIsIdempotent(t *testing.T) {
	inc := &flakyIncrementer{}
	clicks := NewClickAccountant(inc, 1, 1, time.Second)
	clicks.Close()
	clicks.Close()

	// Must not panic on a closed queue.
	clicks.RecordClick("good")
	if inc.ok != 0 {
		t.Errorf("click recorded after Close: ok = %d", inc.ok)
	}
}

// blockingIncrementer holds workers until released.
type blockingIncrementer struct {
	release chan struct{}
	mu      sync.Mutex
	n       int
}

func (b *blockingIncrementer) IncrementClicks(ctx context.Context, code string) error {
	<-b.release
	b.mu.Lock()
	b.n++
	b.mu.Unlock()
	return nil
}

func TestClickAccountant_FullQueueDoesNotBlock(t *testing.T) {
	inc := &blockingIncrementer{release: make(chan struct{})}
	clicks := NewClickAccountant(inc, 1, 2, time.Second)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			clicks.RecordClick("x")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RecordClick blocked on a full queue")
	}

	close(inc.release)
	clicks.Close()

	// One click held by the worker plus at most two queued.
	if inc.n < 1 || inc.n > 3 {
		t.Errorf("applied %d clicks, want between 1 and 3", inc.n)
	}
}
