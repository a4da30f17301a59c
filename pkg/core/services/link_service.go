package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/murat/gimly/pkg/core/domain"
	"github.com/murat/gimly/pkg/ports"
)

const DefaultMaxAttempts = 5

type LinkService struct {
	repo        ports.LinkRepository
	codes       ports.CodeGenerator
	clicks      ports.ClickRecorder
	maxAttempts int
	now         func() time.Time
}

func NewLinkService(repo ports.LinkRepository, codes ports.CodeGenerator, clicks ports.ClickRecorder, maxAttempts int) *LinkService {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &LinkService{
		repo:        repo,
		codes:       codes,
		clicks:      clicks,
		maxAttempts: maxAttempts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *LinkService) Shorten(ctx context.Context, targetURL, title string) (*domain.Link, error) {
	target, err := domain.NormalizeURL(targetURL)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate short id: %w", err)
		}

		link := &domain.Link{
			ShortID:   code,
			TargetURL: target,
			Title:     title,
			CreatedAt: s.now(),
		}

		err = s.repo.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, domain.ErrShortIDTaken) {
			return nil, storeError(err)
		}

		log.Printf("Short id %q already exists, retrying generation (%d/%d)", code, attempt, s.maxAttempts)
	}

	return nil, domain.ErrGenerationExhausted
}

func (s *LinkService) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	link, err := s.repo.GetByShortID(ctx, code)
	if err != nil {
		return nil, storeError(err)
	}
	return link, nil
}

func (s *LinkService) ListLinks(ctx context.Context) ([]domain.Link, error) {
	links, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return links, nil
}

// Resolve looks up code and, on a hit, hands one click to the recorder.
// The click is recorded asynchronously; the returned link carries the count as read.
func (s *LinkService) Resolve(ctx context.Context, code string) (*domain.Link, error) {
	link, err := s.GetLink(ctx, code)
	if err != nil {
		return nil, err
	}
	if s.clicks != nil {
		s.clicks.RecordClick(link.ShortID)
	}
	return link, nil
}

func (s *LinkService) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return storeError(err)
	}
	return nil
}

// storeError passes domain sentinels through and marks everything else as a backend failure.
func storeError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrShortIDTaken),
		errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
