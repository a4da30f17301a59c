package ports

import (
	"context"

	"github.com/murat/gimly/pkg/core/domain"
)

// LinkRepository defines storage operations for links
type LinkRepository interface {
	// Create inserts link as given and fills in link.ID.
	// It returns domain.ErrShortIDTaken if the short id is already stored.
	Create(ctx context.Context, link *domain.Link) error
	GetByShortID(ctx context.Context, code string) (*domain.Link, error)
	List(ctx context.Context) ([]domain.Link, error) // Creation order
	IncrementClicks(ctx context.Context, code string) error

	Ping(ctx context.Context) error
	Close() error
}

// CodeGenerator produces candidate short ids
type CodeGenerator interface {
	Generate() (string, error)
}

// ClickRecorder accepts clicks without blocking the caller
type ClickRecorder interface {
	RecordClick(code string)
}

// LinkService defines the business logic operations
type LinkService interface {
	Shorten(ctx context.Context, targetURL, title string) (*domain.Link, error)
	GetLink(ctx context.Context, code string) (*domain.Link, error)
	ListLinks(ctx context.Context) ([]domain.Link, error)
	Resolve(ctx context.Context, code string) (*domain.Link, error)
	Ping(ctx context.Context) error
}
