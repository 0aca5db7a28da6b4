// Package ai defines the black-box generation capabilities consumed by the
// application: reply drafting, raw-review parsing, photo enhancement and
// marketing copy. Prompt construction is thin and swappable; the metering
// core treats every method as generate(request) -> result | error.
package ai

import (
	"context"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/directory"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/review"
)

// Tone selects the register of a generated reply.
type Tone string

const (
	ToneFormal   Tone = "formal"
	ToneInformal Tone = "informal"
	ToneFriendly Tone = "friendly"
	ToneConcise  Tone = "concise"
)

// Language selects the reply language.
type Language string

const (
	LangItalian Language = "it"
	LangEnglish Language = "en"
	LangGerman  Language = "de"
)

// PhotoStyle selects the look of an enhanced photo.
type PhotoStyle string

const (
	StyleNatural  PhotoStyle = "natural"
	StyleWarm     PhotoStyle = "warm"
	StyleBright   PhotoStyle = "bright"
	StyleDramatic PhotoStyle = "dramatic"
	StyleHDR      PhotoStyle = "hdr"
)

// DishStyle selects the register of a menu description.
type DishStyle string

const (
	DishGourmet DishStyle = "gourmet"
	DishRustic  DishStyle = "rustic"
	DishSimple  DishStyle = "simple"
)

// PostTopic selects the kind of promotional post.
type PostTopic string

const (
	TopicUpdate PostTopic = "update"
	TopicOffer  PostTopic = "offer"
	TopicEvent  PostTopic = "event"
)

// ReplyRequest carries everything the generator needs to answer a review on
// the tenant's behalf. Identity is optional extra voice context.
type ReplyRequest struct {
	ReviewText string
	Author     string
	Rating     int
	Tone       Tone
	Language   Language
	TenantName string
	Identity   *directory.BrandIdentity
}

// ParsedReview is the structured result of extracting a pasted review.
type ParsedReview struct {
	Author string        `json:"author"`
	Rating int           `json:"rating"`
	Text   string        `json:"text"`
	Source review.Source `json:"source"`
	Date   string        `json:"date"`
}

// ProfileRequest asks for an optimized business-listing description.
type ProfileRequest struct {
	TenantName         string
	CuisineType        string
	Location           string
	CurrentDescription string
}

// ProfileResult is the optimized listing copy.
type ProfileResult struct {
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Keywords    []string `json:"keywords"`
}

// MenuRequest asks for a dish description.
type MenuRequest struct {
	DishName    string
	Ingredients string
	Style       DishStyle
}

// PostRequest asks for a short promotional post.
type PostRequest struct {
	Topic      PostTopic
	Details    string
	TenantName string
}

// QnARequest asks for suggested customer Q&A pairs.
type QnARequest struct {
	TenantName  string
	CuisineType string
}

// QnAPair is one suggested question with its answer.
type QnAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Client is the full generation capability surface. Implementations may fail
// on any call; callers gate metered calls through the quota meter first and
// surface failures as retryable errors.
type Client interface {
	GenerateReply(ctx context.Context, req ReplyRequest) (string, error)
	ParseRaw(ctx context.Context, raw string) (ParsedReview, error)
	EnhancePhoto(ctx context.Context, img []byte, mimeType string, style PhotoStyle) ([]byte, error)
	OptimizeProfile(ctx context.Context, req ProfileRequest) (ProfileResult, error)
	DescribeDish(ctx context.Context, req MenuRequest) (string, error)
	CreatePost(ctx context.Context, req PostRequest) (string, error)
	GenerateQnA(ctx context.Context, req QnARequest) ([]QnAPair, error)
}

// normalizeParsed applies the documented defaults: unknown author becomes
// "Cliente", out-of-range ratings become 5, unknown sources become Manual,
// a missing date becomes "Oggi".
func normalizeParsed(p ParsedReview) ParsedReview {
	if p.Author == "" {
		p.Author = "Cliente"
	}
	if p.Rating < 1 || p.Rating > 5 {
		p.Rating = 5
	}
	if !review.ValidSource(p.Source) {
		p.Source = review.SourceManual
	}
	if p.Date == "" {
		p.Date = "Oggi"
	}
	return p
}
