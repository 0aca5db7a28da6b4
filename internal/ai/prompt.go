package ai

import (
	"fmt"
	"strings"
)

func toneInstruction(tone Tone) string {
	switch tone {
	case ToneFormal:
		return "Use a strictly professional, respectful, and institutional tone. Avoid slang."
	case ToneInformal:
		return "Use a casual, relaxed, and conversational tone. Be polite but friendly, like talking to an acquaintance."
	case ToneFriendly:
		return "Use a very warm, welcoming, and enthusiastic tone. Use appropriate emojis. Make the customer feel like family."
	case ToneConcise:
		return "Be extremely brief, direct, and concise. Max 2 sentences. Thank and say goodbye without fluff."
	default:
		return "Maintain a professional but hospitable tone."
	}
}

func targetLanguage(lang Language) string {
	switch lang {
	case LangEnglish:
		return "English"
	case LangGerman:
		return "German (Deutsch)"
	default:
		return "Italian"
	}
}

func replyPrompt(req ReplyRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review Details:\n- Author: %s\n- Rating: %d/5 stars\n- Review Content: %q\n\n", req.Author, req.Rating, req.ReviewText)
	fmt.Fprintf(&b, "Task: Write a response on behalf of %q restaurant management.\n\n", req.TenantName)
	fmt.Fprintf(&b, "Tone Instructions: %s\n\n", toneInstruction(req.Tone))
	if req.Identity != nil {
		b.WriteString("Brand voice context (use it to sound like this restaurant):\n")
		if req.Identity.Vision != "" {
			fmt.Fprintf(&b, "- Vision: %s\n", req.Identity.Vision)
		}
		if req.Identity.Values != "" {
			fmt.Fprintf(&b, "- Values: %s\n", req.Identity.Values)
		}
		if req.Identity.History != "" {
			fmt.Fprintf(&b, "- History: %s\n", req.Identity.History)
		}
		b.WriteString("\n")
	}
	b.WriteString("General Guidelines:\n")
	b.WriteString("If the review is positive, thank them and invite them back.\n")
	b.WriteString("If the review is negative, apologize sincerely for the specific issues mentioned, explain we take feedback seriously, and ask them to give us another chance.\n\n")
	fmt.Fprintf(&b, "IMPORTANT: Write the response in %s.\n", targetLanguage(req.Language))
	return b.String()
}

func parsePrompt(raw string) string {
	var b strings.Builder
	b.WriteString("Analyze the following raw text which contains a copied review from a platform (like Google Maps, TripAdvisor, TheFork).\n")
	b.WriteString("Extract the following fields into a JSON object:\n")
	b.WriteString("- author: The name of the reviewer. If unknown, use \"Cliente\".\n")
	b.WriteString("- rating: The rating as a number (1-5). If not found, default to 5.\n")
	b.WriteString("- text: The actual review content (remove dates, UI elements, \"Read more\", etc.).\n")
	b.WriteString("- source: Best guess of the source based on text markers ('Google', 'TripAdvisor', 'TheFork'). Default to 'Manual'.\n")
	b.WriteString("- date: The date string if present (e.g., \"2 days ago\", \"12/05/2024\").\n\n")
	fmt.Fprintf(&b, "Raw Text:\n\"\"\"\n%s\n\"\"\"\n\nReturn ONLY raw JSON.\n", raw)
	return b.String()
}

func photoStyleInstruction(style PhotoStyle) string {
	switch style {
	case StyleWarm:
		return "warm, cozy lighting with a homey atmosphere"
	case StyleBright:
		return "bright, airy lighting suitable for daylight dishes"
	case StyleDramatic:
		return "dark background, high contrast, elegant gourmet plating"
	case StyleHDR:
		return "maximum sharpness and detail on every ingredient"
	default:
		return "balanced natural lighting with true-to-life colors"
	}
}

func profilePrompt(req ProfileRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Restaurant: %s (%s) in %s.\n", req.TenantName, req.CuisineType, req.Location)
	if req.CurrentDescription != "" {
		fmt.Fprintf(&b, "Current listing description: %q\n", req.CurrentDescription)
	}
	b.WriteString("Write an optimized Google Business Profile for this restaurant as a JSON object with fields:\n")
	b.WriteString("- description: a compelling 500-700 character description in Italian\n")
	b.WriteString("- categories: 2-3 suggested listing categories\n")
	b.WriteString("- keywords: 5-8 local search keywords\n")
	b.WriteString("Return ONLY raw JSON.\n")
	return b.String()
}

func dishPrompt(req MenuRequest) string {
	register := "genuine and traditional, like a family trattoria"
	switch req.Style {
	case DishGourmet:
		register = "refined and evocative, like a fine-dining menu"
	case DishSimple:
		register = "plain and direct, no frills"
	}
	return fmt.Sprintf(
		"Write a short Italian menu description (max 2 sentences) for the dish %q with ingredients: %s.\nRegister: %s.\nReturn only the description text.",
		req.DishName, req.Ingredients, register,
	)
}

func postPrompt(req PostRequest) string {
	kind := "a news update"
	switch req.Topic {
	case TopicOffer:
		kind = "a promotional offer"
	case TopicEvent:
		kind = "an event announcement"
	}
	return fmt.Sprintf(
		"Write a short Google Business post in Italian for the restaurant %q announcing %s.\nDetails: %s\nKeep it under 120 words, end with a call to action. Return only the post text.",
		req.TenantName, kind, req.Details,
	)
}

func qnaPrompt(req QnARequest) string {
	return fmt.Sprintf(
		"Suggest 4 frequently asked customer questions with answers for the restaurant %q (%s).\nReturn ONLY a raw JSON array of objects with fields \"question\" and \"answer\", in Italian.",
		req.TenantName, req.CuisineType,
	)
}
