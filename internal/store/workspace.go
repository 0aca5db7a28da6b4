package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/directory"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/review"
)

// Key scheme. Tenant ids never contain ':', so no two tenants' keys can
// collide by construction.
func reviewsKey(tenantID string) string { return "reviews:" + tenantID }
func identityKey(tenantID string) string { return "identity:" + tenantID }
func usageKey(tenantID, periodKey string) string {
	return "usage:" + tenantID + ":" + periodKey
}

// Workspace persists a tenant's reviews, brand identity and usage counters on
// a KV substrate. Every save is a full overwrite of the namespaced key; a
// failed serialization writes nothing, so the previous durable value stays
// intact.
type Workspace struct {
	kv KV
}

// NewWorkspace creates a workspace store on the given substrate.
func NewWorkspace(kv KV) *Workspace {
	return &Workspace{kv: kv}
}

// LoadReviews returns the persisted collection for the tenant. On a tenant's
// first-ever load, detected by key absence (not by an empty collection), it
// returns the deterministic seed set instead: a stored empty collection stays
// empty.
func (w *Workspace) LoadReviews(ctx context.Context, tenantID, tenantName string) ([]review.Review, error) {
	raw, found, err := w.kv.Get(ctx, reviewsKey(tenantID))
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	if !found {
		return review.Seed(tenantName), nil
	}
	var reviews []review.Review
	if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	if reviews == nil {
		reviews = []review.Review{}
	}
	return reviews, nil
}

// SaveReviews overwrites the tenant's full collection.
func (w *Workspace) SaveReviews(ctx context.Context, tenantID string, reviews []review.Review) error {
	if reviews == nil {
		reviews = []review.Review{}
	}
	raw, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("encode reviews: %w", err)
	}
	if err := w.kv.Set(ctx, reviewsKey(tenantID), string(raw)); err != nil {
		return fmt.Errorf("save reviews: %w", err)
	}
	return nil
}

// LoadIdentity returns the tenant's brand identity, or nil when none has been
// saved yet.
func (w *Workspace) LoadIdentity(ctx context.Context, tenantID string) (*directory.BrandIdentity, error) {
	raw, found, err := w.kv.Get(ctx, identityKey(tenantID))
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if !found {
		return nil, nil
	}
	var id directory.BrandIdentity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return &id, nil
}

// SaveIdentity overwrites the tenant's brand identity.
func (w *Workspace) SaveIdentity(ctx context.Context, tenantID string, id directory.BrandIdentity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := w.kv.Set(ctx, identityKey(tenantID), string(raw)); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

// LoadUsage returns the metered-operation count for the tenant and period, 0
// when absent. Counters for different periods are independent; rollover to a
// new period key implicitly starts from zero.
func (w *Workspace) LoadUsage(ctx context.Context, tenantID, periodKey string) (int, error) {
	raw, found, err := w.kv.Get(ctx, usageKey(tenantID, periodKey))
	if err != nil {
		return 0, fmt.Errorf("load usage: %w", err)
	}
	if !found {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// SaveUsage overwrites the counter for the tenant and period.
func (w *Workspace) SaveUsage(ctx context.Context, tenantID, periodKey string, value int) error {
	if value < 0 {
		value = 0
	}
	if err := w.kv.Set(ctx, usageKey(tenantID, periodKey), strconv.Itoa(value)); err != nil {
		return fmt.Errorf("save usage: %w", err)
	}
	return nil
}
