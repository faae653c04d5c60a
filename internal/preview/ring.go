package preview

import (
	"sync"

	"webdojo/internal/sandbox"

	"github.com/google/uuid"
)

// ring keeps the most recent rendered documents addressable by token.
// Older entries are overwritten once the ring is full.
type ring struct {
	mu     sync.Mutex
	docs   map[string]sandbox.Document
	order  []string
	next   int
	latest string
}

func newRing(size int) *ring {
	if size <= 0 {
		size = 1
	}
	return &ring{docs: make(map[string]sandbox.Document, size), order: make([]string, size)}
}

func (r *ring) put(doc sandbox.Document) string {
	token := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	if old := r.order[r.next]; old != "" {
		delete(r.docs, old)
	}
	r.order[r.next] = token
	r.next = (r.next + 1) % len(r.order)
	r.docs[token] = doc
	r.latest = token
	return token
}

func (r *ring) get(token string) (sandbox.Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[token]
	return doc, ok
}

func (r *ring) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}
