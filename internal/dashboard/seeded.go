package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sakif/codevault/internal/repository"
	"github.com/sakif/codevault/internal/repository/memory"
	"github.com/sakif/codevault/internal/service"
)

// NewSeeded builds a dashboard over a fresh in-memory collection holding the
// example snippets. Every successful login gets one of these.
func NewSeeded(ctx context.Context, logger *slog.Logger, opts ...memory.Option) (*Dashboard, error) {
	return NewSeededFrom(ctx, memory.New(opts...), logger)
}

// NewSeededFrom seeds repo with the example snippets and builds a dashboard
// over it. repo must be empty. If repo is an io.Closer, Close on the
// dashboard closes it, and it is closed right away when seeding fails.
func NewSeededFrom(ctx context.Context, repo repository.SnippetRepository, logger *slog.Logger) (*Dashboard, error) {
	closer, _ := repo.(io.Closer)
	if err := memory.Seed(ctx, repo); err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("dashboard: seeding collection: %w", err)
	}
	d := New(service.NewSnippetService(repo, logger), logger)
	d.closer = closer
	return d, nil
}
