package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/directory"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/review"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/store"
)

// ErrInvalidCredential signals a bad access code. It is recoverable: the
// resolver stays anonymous and the caller re-prompts.
var ErrInvalidCredential = errors.New("invalid access code")

// Workspace is the mutable per-session aggregate for the authenticated
// tenant: the loaded reviews, identity and usage counter. The directory's
// Tenant record itself stays immutable.
type Workspace struct {
	Tenant      directory.Tenant
	Reviews     *review.Collection
	Identity    *directory.BrandIdentity
	CreditsUsed int
	PeriodKey   string

	// Degraded is set when the durable store was unreachable during load;
	// the session then operates in memory only.
	Degraded bool
}

// PeriodKeyer yields the usage bucket for the current instant.
type PeriodKeyer interface {
	PeriodKey() string
}

// Resolver is the session state machine: Anonymous until a code resolves,
// Authenticated(tenant) afterwards. Exactly one tenant is active at a time.
type Resolver struct {
	dir    directory.Directory
	ws     *store.Workspace
	marker Marker
	period PeriodKeyer

	mu      sync.Mutex
	current *Workspace
}

// NewResolver wires the resolver to its collaborators.
func NewResolver(dir directory.Directory, ws *store.Workspace, marker Marker, period PeriodKeyer) *Resolver {
	return &Resolver{dir: dir, ws: ws, marker: marker, period: period}
}

// Current returns the active workspace, or nil while anonymous.
func (r *Resolver) Current() *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Login resolves the access code and, on success, loads the full workspace
// and stores the session marker. On failure the resolver stays anonymous and
// returns ErrInvalidCredential.
func (r *Resolver) Login(ctx context.Context, code string) (*Workspace, error) {
	tenant, err := r.dir.FindByCode(code)
	if errors.Is(err, directory.ErrNotFound) {
		return nil, ErrInvalidCredential
	}
	if err != nil {
		return nil, err
	}

	if err := r.marker.Put(ctx, tenant.ID); err != nil {
		// A lost marker only costs silent restore on the next start.
		log.Printf("session: store marker: %v", err)
	}
	return r.load(ctx, tenant), nil
}

// Restore re-enters the authenticated state from a previously stored marker.
// An absent marker leaves the resolver anonymous with no error; a stale
// marker (tenant removed from the directory) is cleared and likewise falls
// back to anonymous rather than failing.
func (r *Resolver) Restore(ctx context.Context) (*Workspace, error) {
	tenantID, found, err := r.marker.Get(ctx)
	if err != nil {
		log.Printf("session: read marker: %v", err)
		return nil, nil
	}
	if !found {
		return nil, nil
	}

	tenant, err := r.dir.FindByID(tenantID)
	if errors.Is(err, directory.ErrNotFound) {
		if clearErr := r.marker.Clear(ctx); clearErr != nil {
			log.Printf("session: clear stale marker: %v", clearErr)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.load(ctx, tenant), nil
}

// load assembles the workspace aggregate. All three substores are read before
// the workspace is published, so callers never observe a partial load. A
// storage failure degrades that substore to its default and marks the
// workspace degraded instead of failing the login.
func (r *Resolver) load(ctx context.Context, tenant directory.Tenant) *Workspace {
	ws := &Workspace{Tenant: tenant, PeriodKey: r.period.PeriodKey()}

	reviews, err := r.ws.LoadReviews(ctx, tenant.ID, tenant.Name)
	if err != nil {
		log.Printf("session: load reviews for %s: %v", tenant.ID, err)
		reviews = review.Seed(tenant.Name)
		ws.Degraded = true
	}
	ws.Reviews = review.NewCollection(reviews)

	identity, err := r.ws.LoadIdentity(ctx, tenant.ID)
	if err != nil {
		log.Printf("session: load identity for %s: %v", tenant.ID, err)
		ws.Degraded = true
	} else {
		ws.Identity = identity
	}

	usage, err := r.ws.LoadUsage(ctx, tenant.ID, ws.PeriodKey)
	if err != nil {
		log.Printf("session: load usage for %s: %v", tenant.ID, err)
		ws.Degraded = true
	}
	ws.CreditsUsed = usage

	r.mu.Lock()
	r.current = ws
	r.mu.Unlock()
	return ws
}

// Logout clears the marker and drops the in-memory workspace. The tenant's
// persisted data is untouched: the authenticated state must be
// reconstructible on the next login.
func (r *Resolver) Logout(ctx context.Context) error {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()

	if err := r.marker.Clear(ctx); err != nil {
		return err
	}
	return nil
}
