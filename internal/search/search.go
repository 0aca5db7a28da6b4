// Package search offers full-text search over a tenant's reviews, backed by
// Meilisearch when available with an in-memory scan as fallback.
package search

import (
	"log"
	"strings"
	"sync"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/review"
)

// Query is a tenant-scoped search request.
type Query struct {
	TenantID string
	Text     string
	Limit    int
}

// Service is the facade that tries Meilisearch first and falls back to
// scanning the live collection.
type Service struct {
	meili *Meili
	queue *indexQueue
}

// NewService creates a search service. meili may be nil if Meilisearch is not
// configured.
func NewService(meili *Meili) *Service {
	s := &Service{meili: meili}
	if meili != nil {
		s.queue = newIndexQueue(meili.IndexReviews)
	}
	return s
}

// IndexAll replaces the tenant's indexed reviews (fire-and-forget). Called
// after every persisted mutation so the index tracks the stored collection.
// Snapshots are serialized through a single worker, newest per tenant wins,
// so an older snapshot can never overwrite a newer one in the index.
func (s *Service) IndexAll(tenantID string, reviews []review.Review) {
	if s.queue == nil || !s.meili.Healthy() {
		return
	}
	snapshot := make([]review.Review, len(reviews))
	copy(snapshot, reviews)
	s.queue.enqueue(tenantID, snapshot)
}

// indexQueue serializes full-collection reindexes. Each enqueue replaces the
// tenant's pending snapshot, and one worker drains them in order, so the
// sink only ever sees the latest snapshot per tenant.
type indexQueue struct {
	sink func(tenantID string, reviews []review.Review) error

	mu      sync.Mutex
	pending map[string][]review.Review
	kick    chan struct{}
}

func newIndexQueue(sink func(string, []review.Review) error) *indexQueue {
	q := &indexQueue{
		sink:    sink,
		pending: make(map[string][]review.Review),
		kick:    make(chan struct{}, 1),
	}
	go q.run()
	return q
}

func (q *indexQueue) enqueue(tenantID string, reviews []review.Review) {
	q.mu.Lock()
	q.pending[tenantID] = reviews
	q.mu.Unlock()
	select {
	case q.kick <- struct{}{}:
	default:
	}
}

func (q *indexQueue) run() {
	for range q.kick {
		for {
			q.mu.Lock()
			var (
				tenantID string
				reviews  []review.Review
				found    bool
			)
			for id, r := range q.pending {
				tenantID, reviews, found = id, r, true
				break
			}
			if !found {
				q.mu.Unlock()
				break
			}
			delete(q.pending, tenantID)
			q.mu.Unlock()

			if err := q.sink(tenantID, reviews); err != nil {
				log.Printf("search: reindex tenant %s: %v", tenantID, err)
			}
		}
	}
}

// Search returns the tenant's reviews matching the query text. local is the
// session's live collection, used when Meilisearch is unavailable.
func (s *Service) Search(q Query, local []review.Review) []review.Review {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if s.meili != nil && s.meili.Healthy() {
		results, err := s.meili.Search(q)
		if err == nil {
			return results
		}
		log.Printf("search: meilisearch error, falling back to local scan: %v", err)
	}
	return scan(q, local)
}

func scan(q Query, reviews []review.Review) []review.Review {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	out := []review.Review{}
	if needle == "" {
		return out
	}
	for _, r := range reviews {
		if len(out) >= q.Limit {
			break
		}
		haystack := strings.ToLower(r.Author + " " + r.Text + " " + r.Reply)
		if strings.Contains(haystack, needle) {
			out = append(out, r)
		}
	}
	return out
}
