package store

import (
	"context"
	"testing"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/directory"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/review"
	"github.com/alicebob/miniredis/v2"
)

func setupTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	s := miniredis.RunT(t)
	kv, err := NewRedisKV("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis kv: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return NewWorkspace(kv)
}

func TestFirstLoadReturnsSeed(t *testing.T) {
	w := setupTestWorkspace(t)
	ctx := context.Background()

	reviews, err := w.LoadReviews(ctx, "pilot_04", "Pizzeria Bella Napoli")
	if err != nil {
		t.Fatalf("LoadReviews failed: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected the 2-review seed set, got %d", len(reviews))
	}
	if reviews[0].Source != review.SourceGoogle || reviews[1].Source != review.SourceTripAdvisor {
		t.Errorf("unexpected seed sources: %q, %q", reviews[0].Source, reviews[1].Source)
	}
}

func TestStoredEmptyCollectionIsNotReseeded(t *testing.T) {
	w := setupTestWorkspace(t)
	ctx := context.Background()

	if err := w.SaveReviews(ctx, "pilot_04", []review.Review{}); err != nil {
		t.Fatalf("SaveReviews failed: %v", err)
	}

	reviews, err := w.LoadReviews(ctx, "pilot_04", "Pizzeria Bella Napoli")
	if err != nil {
		t.Fatalf("LoadReviews failed: %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("emptied collection must stay empty, got %d reviews", len(reviews))
	}
}

func TestReviewsRoundTrip(t *testing.T) {
	w := setupTestWorkspace(t)
	ctx := context.Background()

	want := []review.Review{
		{ID: "100", Source: review.SourceTheFork, Author: "Anna S.", Rating: 5, Text: "Qualità altissima.", Date: "Oggi", Status: review.StatusReplied, Reply: "Grazie!"},
		{ID: "99", Source: review.SourceManual, Author: "Paolo", Rating: 2, Text: "Lento.", Date: "Ieri", Status: review.StatusPending},
	}
	if err := w.SaveReviews(ctx, "pilot_01", want); err != nil {
		t.Fatalf("SaveReviews failed: %v", err)
	}

	got, err := w.LoadReviews(ctx, "pilot_01", "Ristorante Da Mario")
	if err != nil {
		t.Fatalf("LoadReviews failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d reviews, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("review %d mismatch:\n got %+v\nwant %+v", i, got[i], want[i])
		}
	}
}

func TestWorkspacesAreTenantScoped(t *testing.T) {
	w := setupTestWorkspace(t)
	ctx := context.Background()

	if err := w.SaveReviews(ctx, "pilot_01", []review.Review{{ID: "1", Source: review.SourceManual, Author: "A", Rating: 5, Text: "x", Status: review.StatusPending}}); err != nil {
		t.Fatalf("SaveReviews failed: %v", err)
	}

	// The second tenant has never been written: it must still see its seed,
	// not the first tenant's data.
	other, err := w.LoadReviews(ctx, "pilot_02", "Sushi Zen Experience")
	if err != nil {
		t.Fatalf("LoadReviews failed: %v", err)
	}
	if len(other) != 2 || other[0].Author != "Hans Müller" {
		t.Errorf("tenant isolation broken: %+v", other)
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	w := setupTestWorkspace(t)
	ctx := context.Background()

	got, err := w.LoadIdentity(ctx, "pilot_03")
	if err != nil {
		t.Fatalf("LoadIdentity failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil identity before first save, got %+v", got)
	}

	want := directory.BrandIdentity{Vision: "Pesce fresco ogni giorno", Values: "Famiglia, mare", History: "Dal 1960 sul porto"}
	if err := w.SaveIdentity(ctx, "pilot_03", want); err != nil {
		t.Fatalf("SaveIdentity failed: %v", err)
	}

	got, err = w.LoadIdentity(ctx, "pilot_03")
	if err != nil {
		t.Fatalf("LoadIdentity failed: %v", err)
	}
	if got == nil || *got != want {
		t.Errorf("identity mismatch: got %+v want %+v", got, want)
	}
}

func TestUsageCountersArePeriodIndependent(t *testing.T) {
	w := setupTestWorkspace(t)
	ctx := context.Background()

	if err := w.SaveUsage(ctx, "pilot_05", "2026-08", 42); err != nil {
		t.Fatalf("SaveUsage failed: %v", err)
	}

	aug, err := w.LoadUsage(ctx, "pilot_05", "2026-08")
	if err != nil {
		t.Fatalf("LoadUsage failed: %v", err)
	}
	sep, err := w.LoadUsage(ctx, "pilot_05", "2026-09")
	if err != nil {
		t.Fatalf("LoadUsage failed: %v", err)
	}
	if aug != 42 {
		t.Errorf("expected 42 for 2026-08, got %d", aug)
	}
	if sep != 0 {
		t.Errorf("a new period must start from zero, got %d", sep)
	}

	// Writing the new period must not disturb the old one.
	if err := w.SaveUsage(ctx, "pilot_05", "2026-09", 1); err != nil {
		t.Fatalf("SaveUsage failed: %v", err)
	}
	aug, _ = w.LoadUsage(ctx, "pilot_05", "2026-08")
	if aug != 42 {
		t.Errorf("old period counter changed to %d", aug)
	}
}

func TestLoadUsageGarbageIsZero(t *testing.T) {
	kv := NewMemoryKV()
	w := NewWorkspace(kv)
	ctx := context.Background()

	if err := kv.Set(ctx, "usage:pilot_06:2026-08", "not-a-number"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	n, err := w.LoadUsage(ctx, "pilot_06", "2026-08")
	if err != nil {
		t.Fatalf("LoadUsage failed: %v", err)
	}
	if n != 0 {
		t.Errorf("unparseable counter should read as 0, got %d", n)
	}
}
