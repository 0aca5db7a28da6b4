package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/review"
)

// Canned is a deterministic, offline Client used when no API key is
// configured and in tests. Replies come from fixed templates; photo
// enhancement is the identity transform.
type Canned struct{}

// NewCanned creates the offline client.
func NewCanned() *Canned {
	return &Canned{}
}

func (c *Canned) GenerateReply(_ context.Context, req ReplyRequest) (string, error) {
	var thanks, sorry, signoff string
	switch req.Language {
	case LangEnglish:
		thanks = "Thank you %s for your kind words, we hope to welcome you back soon"
		sorry = "We are sorry %s, your experience was not up to our standards and we take your feedback seriously"
		signoff = "The %s team"
	case LangGerman:
		thanks = "Vielen Dank %s für Ihre netten Worte, wir freuen uns auf Ihren nächsten Besuch"
		sorry = "Es tut uns leid %s, Ihr Erlebnis entsprach nicht unseren Standards und wir nehmen Ihr Feedback ernst"
		signoff = "Das %s Team"
	default:
		thanks = "Grazie %s per le sue belle parole, speriamo di riaverla presto da noi"
		sorry = "Ci dispiace %s, la sua esperienza non è stata all'altezza dei nostri standard e prendiamo sul serio il suo feedback"
		signoff = "Il team di %s"
	}

	body := fmt.Sprintf(thanks, req.Author)
	if req.Rating <= 3 {
		body = fmt.Sprintf(sorry, req.Author)
	}
	if req.Tone == ToneConcise {
		return body + ".", nil
	}
	if req.Tone == ToneFriendly {
		body += " 😊"
	}
	return fmt.Sprintf("%s. %s.", body, fmt.Sprintf(signoff, req.TenantName)), nil
}

// ParseRaw extracts what it can with plain text heuristics: a platform marker
// for the source, an "N/5" fragment for the rating. Everything else falls to
// the documented defaults.
func (c *Canned) ParseRaw(_ context.Context, raw string) (ParsedReview, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ParsedReview{}, fmt.Errorf("empty input")
	}

	parsed := ParsedReview{Text: raw, Source: review.SourceManual}

	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "tripadvisor"):
		parsed.Source = review.SourceTripAdvisor
	case strings.Contains(lower, "thefork") || strings.Contains(lower, "the fork"):
		parsed.Source = review.SourceTheFork
	case strings.Contains(lower, "google"):
		parsed.Source = review.SourceGoogle
	}

	for n := 1; n <= 5; n++ {
		if strings.Contains(raw, fmt.Sprintf("%d/5", n)) {
			parsed.Rating = n
			break
		}
	}

	return normalizeParsed(parsed), nil
}

func (c *Canned) EnhancePhoto(_ context.Context, img []byte, _ string, _ PhotoStyle) ([]byte, error) {
	if len(img) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	out := make([]byte, len(img))
	copy(out, img)
	return out, nil
}

func (c *Canned) OptimizeProfile(_ context.Context, req ProfileRequest) (ProfileResult, error) {
	return ProfileResult{
		Description: fmt.Sprintf("%s porta a %s il meglio della %s: ingredienti del territorio, accoglienza familiare e una cucina che racconta la nostra storia.", req.TenantName, req.Location, strings.ToLower(req.CuisineType)),
		Categories:  []string{"Ristorante", req.CuisineType},
		Keywords:    []string{"ristorante " + strings.ToLower(req.Location), strings.ToLower(req.CuisineType), "dove mangiare " + strings.ToLower(req.Location)},
	}, nil
}

func (c *Canned) DescribeDish(_ context.Context, req MenuRequest) (string, error) {
	if req.Ingredients == "" {
		return fmt.Sprintf("%s preparato ogni giorno secondo la nostra ricetta di casa.", req.DishName), nil
	}
	return fmt.Sprintf("%s con %s, preparato ogni giorno secondo la nostra ricetta di casa.", req.DishName, req.Ingredients), nil
}

func (c *Canned) CreatePost(_ context.Context, req PostRequest) (string, error) {
	lead := "Novità da"
	switch req.Topic {
	case TopicOffer:
		lead = "Offerta speciale da"
	case TopicEvent:
		lead = "Evento da"
	}
	return fmt.Sprintf("%s %s: %s. Vi aspettiamo, prenotate ora!", lead, req.TenantName, req.Details), nil
}

func (c *Canned) GenerateQnA(_ context.Context, req QnARequest) ([]QnAPair, error) {
	return []QnAPair{
		{Question: "Serve la prenotazione?", Answer: fmt.Sprintf("Consigliata nel fine settimana: %s è molto richiesto.", req.TenantName)},
		{Question: "Avete opzioni vegetariane?", Answer: "Sì, il menu include sempre piatti vegetariani di stagione."},
		{Question: "È possibile parcheggiare vicino?", Answer: "Ci sono parcheggi pubblici a pochi minuti a piedi."},
		{Question: "Accettate gruppi numerosi?", Answer: "Sì, con prenotazione anticipata organizziamo anche tavolate e menu fissi."},
	}, nil
}
