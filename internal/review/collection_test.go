package review

import (
	"testing"
	"time"
)

func TestAddPrependsPending(t *testing.T) {
	c := NewCollection(nil)

	first, err := c.Add("Tutto buonissimo", SourceManual, "Paolo", 5)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	second, err := c.Add("Servizio lento", SourceGoogle, "Lisa", 2)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	all := c.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(all))
	}
	if all[0].ID != second.ID || all[1].ID != first.ID {
		t.Errorf("expected newest-first order, got %q then %q", all[0].ID, all[1].ID)
	}
	if all[0].Status != StatusPending {
		t.Errorf("new review should be pending, got %q", all[0].Status)
	}
}

func TestAddRejectsMalformedInput(t *testing.T) {
	c := NewCollection(nil)

	cases := []struct {
		name   string
		text   string
		author string
		rating int
	}{
		{"empty author", "great food", "", 5},
		{"empty text", "", "Paolo", 5},
		{"rating too low", "great food", "Paolo", 0},
		{"rating too high", "great food", "Paolo", 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.Add(tc.text, SourceManual, tc.author, tc.rating); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if c.Len() != 0 {
		t.Errorf("no partial review should be created, got %d", c.Len())
	}
}

func TestIDsAreUniqueAndSortable(t *testing.T) {
	c := NewCollection(nil)
	fixed := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		r, err := c.Add("testo", SourceManual, "Autore", 4)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if seen[r.ID] {
			t.Fatalf("duplicate id %q", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestCountsAlwaysSumToTotal(t *testing.T) {
	c := NewCollection(nil)
	for i := 0; i < 4; i++ {
		if _, err := c.Add("testo", SourceManual, "Autore", 5); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	check := func() {
		if c.PendingCount()+c.RepliedCount() != c.Len() {
			t.Fatalf("pending %d + replied %d != total %d", c.PendingCount(), c.RepliedCount(), c.Len())
		}
	}
	check()

	for _, r := range c.All()[:2] {
		if !c.MarkReplied(r.ID, "Grazie!") {
			t.Fatalf("MarkReplied(%q) did not match", r.ID)
		}
		check()
	}
	c.Reopen(c.All()[0].ID)
	check()
}

func TestReopenRetainsReply(t *testing.T) {
	c := NewCollection(nil)
	r, err := c.Add("testo", SourceGoogle, "Autore", 3)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if !c.MarkReplied(r.ID, "x") {
		t.Fatal("MarkReplied did not match")
	}
	if !c.Reopen(r.ID) {
		t.Fatal("Reopen did not match")
	}

	got, ok := c.Get(r.ID)
	if !ok {
		t.Fatal("review disappeared")
	}
	if got.Status != StatusPending {
		t.Errorf("expected pending after reopen, got %q", got.Status)
	}
	if got.Reply != "x" {
		t.Errorf("reply should be retained after reopen, got %q", got.Reply)
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	c := NewCollection(nil)
	if _, err := c.Add("testo", SourceManual, "Autore", 5); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	before := c.All()

	author := "Nessuno"
	if c.Update("does-not-exist", Patch{Author: &author}) {
		t.Error("Update of unknown id should report no match")
	}
	after := c.All()
	if len(before) != len(after) || before[0] != after[0] {
		t.Error("Update of unknown id must not change the collection")
	}
}

func TestFilterIsPureProjection(t *testing.T) {
	c := NewCollection(nil)
	a, _ := c.Add("primo", SourceManual, "A", 5)
	b, _ := c.Add("secondo", SourceManual, "B", 4)
	c.MarkReplied(a.ID, "ok")

	pending := c.Reviews(FilterPending)
	replied := c.Reviews(FilterReplied)
	if len(pending) != 1 || pending[0].ID != b.ID {
		t.Errorf("unexpected pending set: %+v", pending)
	}
	if len(replied) != 1 || replied[0].ID != a.ID {
		t.Errorf("unexpected replied set: %+v", replied)
	}

	// Mutating the projection must not leak into the collection.
	pending[0].Author = "mutated"
	if got, _ := c.Get(b.ID); got.Author != "B" {
		t.Error("filter result should be a copy")
	}
}

func TestAddImportedDefaults(t *testing.T) {
	c := NewCollection(nil)
	r, err := c.AddImported(Review{
		Source: Source("NotAPlatform"),
		Author: "Anna S.",
		Rating: 5,
		Text:   "Qualità altissima.",
	})
	if err != nil {
		t.Fatalf("AddImported failed: %v", err)
	}
	if r.Source != SourceManual {
		t.Errorf("unknown source should default to Manual, got %q", r.Source)
	}
	if r.Date != "Adesso" {
		t.Errorf("expected default date Adesso, got %q", r.Date)
	}
	if r.Status != StatusPending {
		t.Errorf("imported review should be pending, got %q", r.Status)
	}
}

func TestNewCollectionResumesIDSequence(t *testing.T) {
	seeded := NewCollection(Seed("Trattoria I Nonni"))
	r, err := seeded.Add("nuovo", SourceManual, "Autore", 5)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if r.ID == "1" || r.ID == "2" {
		t.Errorf("fresh id must not collide with seed ids, got %q", r.ID)
	}
}
