// Package app orchestrates the session, workspace, quota and AI collaborators
// behind the operations the client surface calls.
package app

import (
	"context"
	"log"
	"math/rand"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/ai"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/config"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/directory"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/photos"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/quota"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/review"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/search"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/session"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/store"
)

// Service wires the metering core to its collaborators. All operations run on
// the single session goroutine; every mutation persists before the next one
// is dispatched, so there is no write-behind queue to race against.
type Service struct {
	resolver *session.Resolver
	ws       *store.Workspace
	meter    *quota.Meter
	gen      ai.Client
	search   *search.Service
	photos   photos.Store

	refundOnFailure bool
	// syncPick selects the canned sync review; replaceable in tests.
	syncPick func(n int) int
}

// New assembles the application service.
func New(cfg config.Config, resolver *session.Resolver, ws *store.Workspace, meter *quota.Meter, gen ai.Client, searchSvc *search.Service, photoStore photos.Store) *Service {
	return &Service{
		resolver:        resolver,
		ws:              ws,
		meter:           meter,
		gen:             gen,
		search:          searchSvc,
		photos:          photoStore,
		refundOnFailure: cfg.QuotaRefundOnFailure,
		syncPick:        rand.Intn,
	}
}

// Login resolves the access code and loads the tenant workspace.
func (s *Service) Login(ctx context.Context, code string) (*session.Workspace, error) {
	ws, err := s.resolver.Login(ctx, code)
	if err != nil {
		return nil, err
	}
	if ws.Degraded {
		return ws, ErrStorageUnavailable
	}
	return ws, nil
}

// Restore re-enters a previous session from the stored marker, if any.
// A nil workspace with nil error means cold start: stay anonymous.
func (s *Service) Restore(ctx context.Context) (*session.Workspace, error) {
	ws, err := s.resolver.Restore(ctx)
	if err != nil || ws == nil {
		return ws, err
	}
	if ws.Degraded {
		return ws, ErrStorageUnavailable
	}
	return ws, nil
}

// Logout drops the session. Persisted workspace data stays intact.
func (s *Service) Logout(ctx context.Context) error {
	return s.resolver.Logout(ctx)
}

func (s *Service) current() (*session.Workspace, error) {
	ws := s.resolver.Current()
	if ws == nil {
		return nil, ErrNotAuthenticated
	}
	return ws, nil
}

// Dashboard is the session summary shown after every command.
type Dashboard struct {
	TenantID     string
	TenantName   string
	PlanName     string
	CreditsUsed  int
	CreditsLimit int
	PeriodKey    string
	Pending      int
	Replied      int
	Total        int
	Degraded     bool
}

// Dashboard summarizes the active session. Counts are recomputed from the
// live collection on every call.
func (s *Service) Dashboard() (Dashboard, error) {
	ws, err := s.current()
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		TenantID:     ws.Tenant.ID,
		TenantName:   ws.Tenant.Name,
		PlanName:     ws.Tenant.PlanName,
		CreditsUsed:  ws.CreditsUsed,
		CreditsLimit: ws.Tenant.PlanLimit,
		PeriodKey:    ws.PeriodKey,
		Pending:      ws.Reviews.PendingCount(),
		Replied:      ws.Reviews.RepliedCount(),
		Total:        ws.Reviews.Len(),
		Degraded:     ws.Degraded,
	}, nil
}

// Reviews returns the filtered view of the collection, newest first.
func (s *Service) Reviews(f review.Filter) ([]review.Review, error) {
	ws, err := s.current()
	if err != nil {
		return nil, err
	}
	return ws.Reviews.Reviews(f), nil
}

// persistReviews writes the full collection immediately after a mutation.
// A storage failure keeps the in-memory state authoritative and returns
// ErrStorageUnavailable so the surface can warn; the mutation itself stands.
func (s *Service) persistReviews(ctx context.Context, ws *session.Workspace) error {
	all := ws.Reviews.All()
	if err := s.ws.SaveReviews(ctx, ws.Tenant.ID, all); err != nil {
		log.Printf("app: save reviews for %s: %v", ws.Tenant.ID, err)
		ws.Degraded = true
		return ErrStorageUnavailable
	}
	s.search.IndexAll(ws.Tenant.ID, all)
	return nil
}

// AddReview creates a manual review. Empty author or text rejects the
// operation before anything is constructed.
func (s *Service) AddReview(ctx context.Context, text string, source review.Source, author string, rating int) (review.Review, error) {
	ws, err := s.current()
	if err != nil {
		return review.Review{}, err
	}
	r, err := ws.Reviews.Add(text, source, author, rating)
	if err != nil {
		return review.Review{}, err
	}
	return r, s.persistReviews(ctx, ws)
}

// AddParsed imports the result of a raw-text extraction as a new review.
func (s *Service) AddParsed(ctx context.Context, p ai.ParsedReview) (review.Review, error) {
	ws, err := s.current()
	if err != nil {
		return review.Review{}, err
	}
	r, err := ws.Reviews.AddImported(review.Review{
		Source: p.Source,
		Author: p.Author,
		Rating: p.Rating,
		Text:   p.Text,
		Date:   p.Date,
	})
	if err != nil {
		return review.Review{}, err
	}
	return r, s.persistReviews(ctx, ws)
}

// UpdateReview merges a partial update into the review with the given id.
// Unknown ids are a no-op.
func (s *Service) UpdateReview(ctx context.Context, id string, p review.Patch) error {
	ws, err := s.current()
	if err != nil {
		return err
	}
	if !ws.Reviews.Update(id, p) {
		return nil
	}
	return s.persistReviews(ctx, ws)
}

// MarkReplied transitions the review to replied with the given reply text.
func (s *Service) MarkReplied(ctx context.Context, id, reply string) error {
	ws, err := s.current()
	if err != nil {
		return err
	}
	if !ws.Reviews.MarkReplied(id, reply) {
		return nil
	}
	return s.persistReviews(ctx, ws)
}

// ReopenReview returns a replied review to pending, keeping its reply text.
func (s *Service) ReopenReview(ctx context.Context, id string) error {
	ws, err := s.current()
	if err != nil {
		return err
	}
	if !ws.Reviews.Reopen(id) {
		return nil
	}
	return s.persistReviews(ctx, ws)
}

// consumeCredit gates a metered operation. The check happens strictly before
// the capability is invoked; a denial means the operation must not run.
func (s *Service) consumeCredit(ctx context.Context, ws *session.Workspace) error {
	allowed, next, err := s.meter.TryConsume(ctx, ws.Tenant, ws.CreditsUsed)
	if !allowed {
		return ErrQuotaExhausted
	}
	ws.CreditsUsed = next
	if err != nil {
		log.Printf("app: persist usage for %s: %v", ws.Tenant.ID, err)
		ws.Degraded = true
	}
	return nil
}

// refundCredit returns the credit consumed by a failed generation, only when
// the refund policy is enabled. The default keeps the charge-before-attempt
// behavior.
func (s *Service) refundCredit(ctx context.Context, ws *session.Workspace) {
	if !s.refundOnFailure {
		return
	}
	next, err := s.meter.Refund(ctx, ws.Tenant, ws.CreditsUsed)
	if err != nil {
		log.Printf("app: refund credit for %s: %v", ws.Tenant.ID, err)
	}
	ws.CreditsUsed = next
}

// GenerateReply drafts a reply for the review. Metered: the credit is charged
// before the call and, by default, kept even if the call fails. The generated
// text is stored on the review as a draft; the review is NOT marked replied
// until the owner approves it with MarkReplied.
func (s *Service) GenerateReply(ctx context.Context, reviewID string, tone ai.Tone, lang ai.Language) (string, error) {
	ws, err := s.current()
	if err != nil {
		return "", err
	}
	r, ok := ws.Reviews.Get(reviewID)
	if !ok {
		return "", ErrReviewNotFound
	}
	if err := s.consumeCredit(ctx, ws); err != nil {
		return "", err
	}

	reply, err := s.gen.GenerateReply(ctx, ai.ReplyRequest{
		ReviewText: r.Text,
		Author:     r.Author,
		Rating:     r.Rating,
		Tone:       tone,
		Language:   lang,
		TenantName: ws.Tenant.Name,
		Identity:   ws.Identity,
	})
	if err != nil {
		s.refundCredit(ctx, ws)
		return "", &GenerationError{Op: "reply", Err: err}
	}

	ws.Reviews.Update(reviewID, review.Patch{Reply: &reply})
	if err := s.persistReviews(ctx, ws); err != nil {
		return reply, err
	}
	return reply, nil
}

// ParseRawReview extracts structured fields from pasted text. Not metered.
func (s *Service) ParseRawReview(ctx context.Context, raw string) (ai.ParsedReview, error) {
	if _, err := s.current(); err != nil {
		return ai.ParsedReview{}, err
	}
	parsed, err := s.gen.ParseRaw(ctx, raw)
	if err != nil {
		return ai.ParsedReview{}, &ParseError{Err: err}
	}
	return parsed, nil
}

// SimulateSync imports one canned platform review, standing in for a live
// platform connection.
func (s *Service) SimulateSync(ctx context.Context) (review.Review, error) {
	ws, err := s.current()
	if err != nil {
		return review.Review{}, err
	}
	candidates := review.SyncCandidates()
	pick := candidates[s.syncPick(len(candidates))]
	r, err := ws.Reviews.AddImported(pick)
	if err != nil {
		return review.Review{}, err
	}
	return r, s.persistReviews(ctx, ws)
}

// Identity returns the tenant's brand identity, nil when never saved.
func (s *Service) Identity() (*directory.BrandIdentity, error) {
	ws, err := s.current()
	if err != nil {
		return nil, err
	}
	return ws.Identity, nil
}

// SaveIdentity persists the brand identity and attaches it to the session.
func (s *Service) SaveIdentity(ctx context.Context, id directory.BrandIdentity) error {
	ws, err := s.current()
	if err != nil {
		return err
	}
	if err := s.ws.SaveIdentity(ctx, ws.Tenant.ID, id); err != nil {
		log.Printf("app: save identity for %s: %v", ws.Tenant.ID, err)
		ws.Identity = &id
		ws.Degraded = true
		return ErrStorageUnavailable
	}
	ws.Identity = &id
	return nil
}

// EnhanceResult carries the outcome of a photo enhancement.
type EnhanceResult struct {
	OriginalKey string
	EnhancedKey string
	Image       []byte
}

// EnhancePhoto is metered; per the pre-check design the credit is consumed
// even when the enhancement fails, in which case the original stays the
// displayed image.
func (s *Service) EnhancePhoto(ctx context.Context, img []byte, mimeType string, style ai.PhotoStyle) (EnhanceResult, error) {
	ws, err := s.current()
	if err != nil {
		return EnhanceResult{}, err
	}
	if err := s.consumeCredit(ctx, ws); err != nil {
		return EnhanceResult{}, err
	}

	result := EnhanceResult{Image: img}
	key, err := s.photos.Save(ctx, ws.Tenant.ID, "original", img, mimeType)
	if err != nil {
		log.Printf("app: store original photo for %s: %v", ws.Tenant.ID, err)
	} else {
		result.OriginalKey = key
	}

	enhanced, err := s.gen.EnhancePhoto(ctx, img, mimeType, style)
	if err != nil {
		s.refundCredit(ctx, ws)
		return result, &GenerationError{Op: "photo", Err: err}
	}

	result.Image = enhanced
	key, err = s.photos.Save(ctx, ws.Tenant.ID, "enhanced", enhanced, "image/png")
	if err != nil {
		log.Printf("app: store enhanced photo for %s: %v", ws.Tenant.ID, err)
	} else {
		result.EnhancedKey = key
	}
	return result, nil
}

// OptimizeProfile generates listing copy for the tenant. Metered. Empty
// location or cuisine fall back to the directory record.
func (s *Service) OptimizeProfile(ctx context.Context, location, cuisine string) (ai.ProfileResult, error) {
	ws, err := s.current()
	if err != nil {
		return ai.ProfileResult{}, err
	}
	if location == "" {
		location = ws.Tenant.Location
	}
	if cuisine == "" {
		cuisine = ws.Tenant.CuisineType
	}
	if err := s.consumeCredit(ctx, ws); err != nil {
		return ai.ProfileResult{}, err
	}

	result, err := s.gen.OptimizeProfile(ctx, ai.ProfileRequest{
		TenantName:  ws.Tenant.Name,
		CuisineType: cuisine,
		Location:    location,
	})
	if err != nil {
		s.refundCredit(ctx, ws)
		return ai.ProfileResult{}, &GenerationError{Op: "profile", Err: err}
	}
	return result, nil
}

// DescribeDish generates a menu description. Metered.
func (s *Service) DescribeDish(ctx context.Context, dish, ingredients string, style ai.DishStyle) (string, error) {
	ws, err := s.current()
	if err != nil {
		return "", err
	}
	if err := s.consumeCredit(ctx, ws); err != nil {
		return "", err
	}

	text, err := s.gen.DescribeDish(ctx, ai.MenuRequest{DishName: dish, Ingredients: ingredients, Style: style})
	if err != nil {
		s.refundCredit(ctx, ws)
		return "", &GenerationError{Op: "dish", Err: err}
	}
	return text, nil
}

// CreatePost generates a promotional post. Metered.
func (s *Service) CreatePost(ctx context.Context, topic ai.PostTopic, details string) (string, error) {
	ws, err := s.current()
	if err != nil {
		return "", err
	}
	if err := s.consumeCredit(ctx, ws); err != nil {
		return "", err
	}

	text, err := s.gen.CreatePost(ctx, ai.PostRequest{Topic: topic, Details: details, TenantName: ws.Tenant.Name})
	if err != nil {
		s.refundCredit(ctx, ws)
		return "", &GenerationError{Op: "post", Err: err}
	}
	return text, nil
}

// GenerateQnA suggests listing Q&A pairs. Metered.
func (s *Service) GenerateQnA(ctx context.Context) ([]ai.QnAPair, error) {
	ws, err := s.current()
	if err != nil {
		return nil, err
	}
	if err := s.consumeCredit(ctx, ws); err != nil {
		return nil, err
	}

	pairs, err := s.gen.GenerateQnA(ctx, ai.QnARequest{TenantName: ws.Tenant.Name, CuisineType: ws.Tenant.CuisineType})
	if err != nil {
		s.refundCredit(ctx, ws)
		return nil, &GenerationError{Op: "qna", Err: err}
	}
	return pairs, nil
}

// SearchReviews runs a tenant-scoped search over the collection.
func (s *Service) SearchReviews(q string) ([]review.Review, error) {
	ws, err := s.current()
	if err != nil {
		return nil, err
	}
	return s.search.Search(search.Query{TenantID: ws.Tenant.ID, Text: q}, ws.Reviews.All()), nil
}
