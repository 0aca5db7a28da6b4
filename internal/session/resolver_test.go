package session

import (
	"context"
	"errors"
	"testing"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/directory"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/quota"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/review"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupResolver(t *testing.T) (*Resolver, *store.Workspace) {
	t.Helper()
	s := miniredis.RunT(t)
	opts, err := redis.ParseURL("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}
	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	kv := store.NewRedisKVWithClient(client)
	ws := store.NewWorkspace(kv)
	dir, err := directory.NewStatic(directory.PilotRoster())
	if err != nil {
		t.Fatalf("NewStatic failed: %v", err)
	}
	meter := quota.NewMeter(ws, quota.CalendarMonthPeriod{})
	return NewResolver(dir, ws, NewRedisMarker(client, 0), meter), ws
}

func TestLoginSuccessLoadsFullWorkspace(t *testing.T) {
	r, ws := setupResolver(t)
	ctx := context.Background()

	ident := directory.BrandIdentity{Vision: "Tradizione tirolese"}
	if err := ws.SaveIdentity(ctx, "demo_internal", ident); err != nil {
		t.Fatalf("SaveIdentity failed: %v", err)
	}

	got, err := r.Login(ctx, "2424")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got.Tenant.ID != "demo_internal" {
		t.Errorf("expected demo_internal, got %q", got.Tenant.ID)
	}
	if got.Reviews == nil || got.Reviews.Len() != 2 {
		t.Error("workspace must be published with the seed reviews loaded")
	}
	if got.Identity == nil || got.Identity.Vision != "Tradizione tirolese" {
		t.Errorf("identity not loaded before publish: %+v", got.Identity)
	}
	if got.CreditsUsed != 0 {
		t.Errorf("fresh tenant should have 0 credits used, got %d", got.CreditsUsed)
	}
	if r.Current() != got {
		t.Error("Current should return the active workspace")
	}
}

func TestLoginTrimsCode(t *testing.T) {
	r, _ := setupResolver(t)

	got, err := r.Login(context.Background(), "  MARIO24 ")
	if err != nil {
		t.Fatalf("Login with padded code failed: %v", err)
	}
	if got.Tenant.ID != "pilot_01" {
		t.Errorf("expected pilot_01, got %q", got.Tenant.ID)
	}
}

func TestLoginWrongCodeStaysAnonymous(t *testing.T) {
	r, _ := setupResolver(t)

	_, err := r.Login(context.Background(), "NOPE")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if r.Current() != nil {
		t.Error("failed login must leave the resolver anonymous")
	}
}

func TestRestoreFromMarker(t *testing.T) {
	r, _ := setupResolver(t)
	ctx := context.Background()

	if _, err := r.Login(ctx, "ZEN24"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// A second resolver over the same stores simulates a process restart.
	r2 := NewResolver(r.dir, r.ws, r.marker, r.period)
	got, err := r2.Restore(ctx)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got == nil || got.Tenant.ID != "pilot_02" {
		t.Fatalf("expected silent restore of pilot_02, got %+v", got)
	}
}

func TestRestoreWithoutMarker(t *testing.T) {
	r, _ := setupResolver(t)

	got, err := r.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got != nil {
		t.Error("cold start without a marker must stay anonymous")
	}
}

func TestRestoreStaleMarkerFallsBackToAnonymous(t *testing.T) {
	r, _ := setupResolver(t)
	ctx := context.Background()

	if err := r.marker.Put(ctx, "tenant_removed_from_roster"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := r.Restore(ctx)
	if err != nil {
		t.Fatalf("stale marker must not fail: %v", err)
	}
	if got != nil {
		t.Error("stale marker must fall back to anonymous")
	}
	if _, found, _ := r.marker.Get(ctx); found {
		t.Error("stale marker should be cleared")
	}
}

func TestLogoutKeepsPersistedWorkspace(t *testing.T) {
	r, ws := setupResolver(t)
	ctx := context.Background()

	got, err := r.Login(ctx, "PORTO24")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := got.Reviews.Add("Pesce freschissimo", review.SourceManual, "Carla", 5); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := ws.SaveReviews(ctx, "pilot_03", got.Reviews.All()); err != nil {
		t.Fatalf("SaveReviews failed: %v", err)
	}

	if err := r.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if r.Current() != nil {
		t.Error("logout must drop the in-memory workspace")
	}
	if _, found, _ := r.marker.Get(ctx); found {
		t.Error("logout must clear the marker")
	}

	// The next login must see the persisted collection, not the seed.
	again, err := r.Login(ctx, "PORTO24")
	if err != nil {
		t.Fatalf("re-login failed: %v", err)
	}
	if again.Reviews.Len() != 3 {
		t.Errorf("expected 3 persisted reviews after re-login, got %d", again.Reviews.Len())
	}
}
