package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/review"
)

func geminiStub(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") == "" {
			t.Error("missing api key")
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": reply}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGeminiGenerateReply(t *testing.T) {
	srv := geminiStub(t, "Grazie Hans, torni presto a trovarci!")
	defer srv.Close()

	g := NewGeminiWithBaseURL("test-key", srv.URL)
	reply, err := g.GenerateReply(context.Background(), ReplyRequest{
		ReviewText: "Cibo eccellente!",
		Author:     "Hans Müller",
		Rating:     5,
		Tone:       ToneFriendly,
		Language:   LangItalian,
		TenantName: "ReiterStube (Demo)",
	})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if reply != "Grazie Hans, torni presto a trovarci!" {
		t.Errorf("unexpected reply %q", reply)
	}
}

func TestGeminiParseRawAppliesDefaults(t *testing.T) {
	srv := geminiStub(t, "```json\n{\"text\": \"Buon cibo\", \"source\": \"NotAPlatform\", \"rating\": 9}\n```")
	defer srv.Close()

	g := NewGeminiWithBaseURL("test-key", srv.URL)
	parsed, err := g.ParseRaw(context.Background(), "Buon cibo - stars unknown")
	if err != nil {
		t.Fatalf("ParseRaw failed: %v", err)
	}
	if parsed.Author != "Cliente" {
		t.Errorf("default author should be Cliente, got %q", parsed.Author)
	}
	if parsed.Rating != 5 {
		t.Errorf("out-of-range rating should default to 5, got %d", parsed.Rating)
	}
	if parsed.Source != review.SourceManual {
		t.Errorf("unknown source should default to Manual, got %q", parsed.Source)
	}
	if parsed.Date != "Oggi" {
		t.Errorf("missing date should default to Oggi, got %q", parsed.Date)
	}
}

func TestGeminiSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": 429, "message": "quota exceeded"}})
	}))
	defer srv.Close()

	g := NewGeminiWithBaseURL("test-key", srv.URL)
	if _, err := g.GenerateReply(context.Background(), ReplyRequest{TenantName: "X"}); err == nil {
		t.Error("expected error from API failure")
	}
}

func TestGeminiRequiresAPIKey(t *testing.T) {
	g := NewGemini("")
	if _, err := g.GenerateReply(context.Background(), ReplyRequest{}); err == nil {
		t.Error("expected error without api key")
	}
}

func TestCannedParseRawHeuristics(t *testing.T) {
	c := NewCanned()
	parsed, err := c.ParseRaw(context.Background(), "Recensione da TripAdvisor: 3/5 - servizio lento ma buon cibo")
	if err != nil {
		t.Fatalf("ParseRaw failed: %v", err)
	}
	if parsed.Source != review.SourceTripAdvisor {
		t.Errorf("expected TripAdvisor, got %q", parsed.Source)
	}
	if parsed.Rating != 3 {
		t.Errorf("expected rating 3, got %d", parsed.Rating)
	}

	if _, err := c.ParseRaw(context.Background(), "   "); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestCannedReplyMatchesSentiment(t *testing.T) {
	c := NewCanned()
	pos, err := c.GenerateReply(context.Background(), ReplyRequest{Author: "Anna", Rating: 5, Language: LangItalian, TenantName: "Bistrot 99"})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if !strings.Contains(pos, "Grazie") {
		t.Errorf("positive reply should thank the customer: %q", pos)
	}

	neg, err := c.GenerateReply(context.Background(), ReplyRequest{Author: "Anna", Rating: 2, Language: LangItalian, TenantName: "Bistrot 99"})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if !strings.Contains(neg, "dispiace") {
		t.Errorf("negative reply should apologize: %q", neg)
	}
}
