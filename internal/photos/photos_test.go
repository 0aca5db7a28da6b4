package photos

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	img := []byte{0x89, 0x50, 0x4e, 0x47}
	key, err := m.Save(ctx, "pilot_01", "original", img, "image/png")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(key, "photos/pilot_01/original-") {
		t.Errorf("unexpected key %q", key)
	}

	got, err := m.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(got, img) {
		t.Errorf("loaded bytes differ: %v != %v", got, img)
	}
}

func TestMemoryKeysAreUnique(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	k1, err := m.Save(ctx, "pilot_01", "original", []byte{1}, "image/png")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	k2, err := m.Save(ctx, "pilot_01", "original", []byte{2}, "image/png")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if k1 == k2 {
		t.Errorf("two saves produced the same key %q", k1)
	}
}

func TestMemoryLoadUnknownKey(t *testing.T) {
	m := NewMemory()
	if _, err := m.Load(context.Background(), "photos/pilot_01/missing"); err == nil {
		t.Error("expected error for unknown key")
	}
}
