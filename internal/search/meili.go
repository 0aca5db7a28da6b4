package search

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/review"
	meili "github.com/meilisearch/meilisearch-go"
)

const idxReviews = "recensioni_reviews"

// reviewRecord is the indexed shape of a review. The id is prefixed with the
// tenant id so documents from different tenants never collide, and every
// query filters on tenantId.
type reviewRecord struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	ReviewID string `json:"reviewId"`
	Source   string `json:"source"`
	Author   string `json:"author"`
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	Reply    string `json:"reply"`
}

// Meili indexes and searches reviews via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the review index. The
// caller should proceed without it if the instance never becomes healthy.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxReviews,
		PrimaryKey: "id",
	}); err != nil {
		log.Printf("search: create index %s: %v", idxReviews, err)
	}

	index := m.client.Index(idxReviews)
	filterable := []string{"tenantId", "status", "source"}
	filterableInterface := make([]interface{}, len(filterable))
	for i, v := range filterable {
		filterableInterface[i] = v
	}
	if _, err := index.UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("search: configure filterable attributes: %v", err)
	}
	if _, err := index.UpdateSearchableAttributes(&[]string{"author", "text", "reply"}); err != nil {
		log.Printf("search: configure searchable attributes: %v", err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// IndexReviews adds or updates the tenant's reviews in the index.
func (m *Meili) IndexReviews(tenantID string, reviews []review.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	records := make([]reviewRecord, 0, len(reviews))
	for _, r := range reviews {
		records = append(records, reviewRecord{
			ID:       tenantID + "_" + r.ID,
			TenantID: tenantID,
			ReviewID: r.ID,
			Source:   string(r.Source),
			Author:   r.Author,
			Rating:   r.Rating,
			Text:     r.Text,
			Date:     r.Date,
			Status:   string(r.Status),
			Reply:    r.Reply,
		})
	}
	if _, err := m.client.Index(idxReviews).AddDocuments(records, nil); err != nil {
		return fmt.Errorf("index reviews: %w", err)
	}
	return nil
}

// Search queries the review index, always filtered by tenant id.
func (m *Meili) Search(q Query) ([]review.Review, error) {
	if !m.healthy.Load() {
		return nil, fmt.Errorf("meilisearch unhealthy")
	}

	limit := int64(q.Limit)
	if limit == 0 {
		limit = 20
	}

	resp, err := m.client.Index(idxReviews).Search(q.Text, &meili.SearchRequest{
		Limit:  limit,
		Filter: []string{fmt.Sprintf("tenantId = %q", q.TenantID)},
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	results := make([]review.Review, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		results = append(results, hitToReview(hit))
	}
	return results, nil
}

func hitToReview(hit meili.Hit) review.Review {
	return review.Review{
		ID:     decodeString(hit, "reviewId"),
		Source: review.Source(decodeString(hit, "source")),
		Author: decodeString(hit, "author"),
		Rating: decodeInt(hit, "rating"),
		Text:   decodeString(hit, "text"),
		Date:   decodeString(hit, "date"),
		Status: review.Status(decodeString(hit, "status")),
		Reply:  decodeString(hit, "reply"),
	}
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func decodeInt(hit meili.Hit, key string) int {
	raw, ok := hit[key]
	if !ok {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return 0
}
