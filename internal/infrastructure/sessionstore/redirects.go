package sessionstore

import (
	"sync"

	"product-download-layer/internal/ports"
)

// Redirects maps a shop to the path it originally requested before being
// sent through OAuth. Entries live for the duration of one OAuth round
// trip, so this store is always in-memory regardless of the session
// backend.
type Redirects struct {
	mu    sync.Mutex
	paths map[string]string
}

// NewRedirects creates an empty pending-redirect store.
func NewRedirects() *Redirects {
	return &Redirects{paths: make(map[string]string)}
}

var _ ports.RedirectStore = (*Redirects)(nil)

func (r *Redirects) Set(shop, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[shop] = path
}

// Take returns and clears the recorded path for a shop.
func (r *Redirects) Take(shop string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path, ok := r.paths[shop]
	if ok {
		delete(r.paths, shop)
	}
	return path, ok
}

// Peek returns the recorded path without consuming it.
func (r *Redirects) Peek(shop string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path, ok := r.paths[shop]
	return path, ok
}
