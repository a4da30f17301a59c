// Package repotest holds the behaviour every ports.LinkRepository must show.
// Backend packages call Run from their own tests.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/murat/gimly/pkg/core/domain"
	"github.com/murat/gimly/pkg/ports"
)

// Factory returns an empty repository. Cleanup is the factory's job.
type Factory func(t *testing.T) ports.LinkRepository

func Run(t *testing.T, newRepo Factory) {
	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, newRepo(t)) })
	t.Run("DuplicateShortID", func(t *testing.T) { testDuplicateShortID(t, newRepo(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newRepo(t)) })
	t.Run("ListOrder", func(t *testing.T) { testListOrder(t, newRepo(t)) })
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, newRepo(t)) })
	t.Run("ConcurrentCreateUnique", func(t *testing.T) { testConcurrentCreateUnique(t, newRepo(t)) })
	t.Run("ConcurrentIncrement", func(t *testing.T) { testConcurrentIncrement(t, newRepo(t)) })
	t.Run("PreservesImportedFields", func(t *testing.T) { testPreservesImportedFields(t, newRepo(t)) })
	t.Run("Ping", func(t *testing.T) {
		if err := newRepo(t).Ping(context.Background()); err != nil {
			t.Fatalf("Ping: %v", err)
		}
	})
}

func newLink(code string) *domain.Link {
	return &domain.Link{
		ShortID:   code,
		TargetURL: "https://example.com/" + code,
		Title:     "Title " + code,
		CreatedAt: time.Now().UTC(),
	}
}

func mustCreate(t *testing.T, repo ports.LinkRepository, link *domain.Link) {
	t.Helper()
	if err := repo.Create(context.Background(), link); err != nil {
		t.Fatalf("Create(%s): %v", link.ShortID, err)
	}
}

func testCreateAndGet(t *testing.T, repo ports.LinkRepository) {
	ctx := context.Background()
	link := newLink("abc123")
	mustCreate(t, repo, link)
	if link.ID == 0 {
		t.Error("Create did not assign an ID")
	}

	got, err := repo.GetByShortID(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetByShortID: %v", err)
	}
	if got.ShortID != link.ShortID || got.TargetURL != link.TargetURL || got.Title != link.Title {
		t.Errorf("got %+v, want %+v", got, link)
	}
	if got.ClickCount != 0 {
		t.Errorf("ClickCount = %d, want 0", got.ClickCount)
	}
	if !got.CreatedAt.Equal(link.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, link.CreatedAt)
	}
}

func testDuplicateShortID(t *testing.T, repo ports.LinkRepository) {
	ctx := context.Background()
	mustCreate(t, repo, newLink("dup1234"))

	other := newLink("dup1234")
	other.TargetURL = "https://other.example.com"
	if err := repo.Create(ctx, other); !errors.Is(err, domain.ErrShortIDTaken) {
		t.Fatalf("second Create error = %v, want ErrShortIDTaken", err)
	}

	got, err := repo.GetByShortID(ctx, "dup1234")
	if err != nil {
		t.Fatal(err)
	}
	if got.TargetURL != "https://example.com/dup1234" {
		t.Errorf("existing mapping was overwritten: %s", got.TargetURL)
	}

	links, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 {
		t.Errorf("List returned %d links, want 1", len(links))
	}
}

func testNotFound(t *testing.T, repo ports.LinkRepository) {
	ctx := context.Background()
	if _, err := repo.GetByShortID(ctx, "doesnotexist"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByShortID error = %v, want ErrNotFound", err)
	}
	if err := repo.IncrementClicks(ctx, "doesnotexist"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("IncrementClicks error = %v, want ErrNotFound", err)
	}
}

func testListOrder(t *testing.T, repo ports.LinkRepository) {
	ctx := context.Background()
	codes := []string{"cccc", "aaaa", "bbbb"}
	for _, c := range codes {
		mustCreate(t, repo, newLink(c))
	}

	first, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(codes) {
		t.Fatalf("List returned %d links, want %d", len(first), len(codes))
	}
	for i, c := range codes {
		if first[i].ShortID != c {
			t.Errorf("List()[%d] = %s, want %s", i, first[i].ShortID, c)
		}
	}

	second, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated List differs:\n%+v\n%+v", first, second)
	}
}

func testListEmpty(t *testing.T, repo ports.LinkRepository) {
	links, err := repo.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if links == nil || len(links) != 0 {
		t.Errorf("List on empty store = %#v, want empty non-nil slice", links)
	}
}

func testConcurrentCreateUnique(t *testing.T, repo ports.LinkRepository) {
	ctx := context.Background()
	const n = 50

	// Every goroutine races for the same code; exactly one may win.
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, taken := 0, 0
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, newLink("race"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrShortIDTaken):
				taken++
			default:
				t.Errorf("Create: %v", err)
			}
		}()
	}
	wg.Wait()
	if wins != 1 || taken != n-1 {
		t.Errorf("wins = %d, taken = %d; want 1 and %d", wins, taken, n-1)
	}

	// Distinct codes all land.
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			if err := repo.Create(ctx, newLink(fmt.Sprintf("code%03d", i))); err != nil {
				t.Errorf("Create: %v", err)
			}
		}(i)
	}
	wg.Wait()

	links, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for _, l := range links {
		if seen[l.ShortID] {
			t.Errorf("duplicate short id in list: %s", l.ShortID)
		}
		seen[l.ShortID] = true
	}
	if len(seen) != n+1 {
		t.Errorf("stored %d distinct links, want %d", len(seen), n+1)
	}
}

func testConcurrentIncrement(t *testing.T, repo ports.LinkRepository) {
	ctx := context.Background()
	mustCreate(t, repo, newLink("hot1"))
	mustCreate(t, repo, newLink("cold"))

	const k = 100
	var wg sync.WaitGroup
	wg.Add(k)
	for i := 0; i < k; i++ {
		go func() {
			defer wg.Done()
			if err := repo.IncrementClicks(ctx, "hot1"); err != nil {
				t.Errorf("IncrementClicks: %v", err)
			}
		}()
	}
	wg.Wait()

	hot, err := repo.GetByShortID(ctx, "hot1")
	if err != nil {
		t.Fatal(err)
	}
	if hot.ClickCount != k {
		t.Errorf("ClickCount = %d, want %d", hot.ClickCount, k)
	}

	cold, err := repo.GetByShortID(ctx, "cold")
	if err != nil {
		t.Fatal(err)
	}
	if cold.ClickCount != 0 {
		t.Errorf("unrelated ClickCount = %d, want 0", cold.ClickCount)
	}
}

func testPreservesImportedFields(t *testing.T, repo ports.LinkRepository) {
	created := time.Date(2023, 4, 5, 6, 7, 8, 9, time.UTC)
	link := &domain.Link{
		ShortID:    "old-id_1",
		TargetURL:  "https://example.org/legacy",
		ClickCount: 42,
		CreatedAt:  created,
	}
	mustCreate(t, repo, link)

	got, err := repo.GetByShortID(context.Background(), "old-id_1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ClickCount != 42 {
		t.Errorf("ClickCount = %d, want 42", got.ClickCount)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if got.Title != "" {
		t.Errorf("Title = %q, want empty", got.Title)
	}
}
