package ports

import (
	"context"

	"product-download-layer/internal/domain"
)

// SessionStore holds the active shop sessions. Implementations must be
// safe for concurrent use; handlers on different goroutines read and write
// it freely.
type SessionStore interface {
	Get(ctx context.Context, shop string) (*domain.Session, error)
	Set(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, shop string) error

	// Active reports whether the shop has a session without returning it.
	Active(ctx context.Context, shop string) (bool, error)
}

// RedirectStore remembers the path a shop originally requested before
// being sent through OAuth. Take consumes the entry.
type RedirectStore interface {
	Set(shop, path string)
	Take(shop string) (path string, ok bool)
}
