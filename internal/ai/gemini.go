package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	textModel      = "gemini-2.5-flash"
	imageModel     = "gemini-2.5-flash-image"
)

// Gemini implements Client against the Google generative language REST API.
// There is no official Go SDK dependency here; the client speaks the
// generateContent endpoint directly.
type Gemini struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewGemini creates a client. The API key is required; requests fail fast
// without it.
func NewGemini(apiKey string) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// NewGeminiWithBaseURL points the client at an alternative endpoint, used in
// tests.
func NewGeminiWithBaseURL(apiKey, baseURL string) *Gemini {
	g := NewGemini(apiKey)
	g.baseURL = strings.TrimRight(baseURL, "/")
	return g
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	TopK             int     `json:"topK,omitempty"`
	TopP             float64 `json:"topP,omitempty"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gemini) generate(ctx context.Context, model string, req geminiRequest) (geminiContent, error) {
	if g.apiKey == "" {
		return geminiContent{}, fmt.Errorf("gemini api key not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return geminiContent{}, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return geminiContent{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return geminiContent{}, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return geminiContent{}, fmt.Errorf("read response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return geminiContent{}, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return geminiContent{}, fmt.Errorf("gemini error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return geminiContent{}, fmt.Errorf("gemini status %d", resp.StatusCode)
	}
	if len(parsed.Candidates) == 0 {
		return geminiContent{}, fmt.Errorf("gemini returned no candidates")
	}
	return parsed.Candidates[0].Content, nil
}

func (g *Gemini) generateText(ctx context.Context, prompt string, cfg *geminiGenConfig) (string, error) {
	content, err := g.generate(ctx, textModel, geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", err
	}
	for _, part := range content.Parts {
		if part.Text != "" {
			return strings.TrimSpace(part.Text), nil
		}
	}
	return "", fmt.Errorf("gemini returned no text")
}

// stripFences removes a ```json ... ``` wrapper some models add around JSON
// answers.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func (g *Gemini) GenerateReply(ctx context.Context, req ReplyRequest) (string, error) {
	return g.generateText(ctx, replyPrompt(req), &geminiGenConfig{Temperature: 0.7, TopK: 40, TopP: 0.95})
}

func (g *Gemini) ParseRaw(ctx context.Context, raw string) (ParsedReview, error) {
	text, err := g.generateText(ctx, parsePrompt(raw), &geminiGenConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return ParsedReview{}, err
	}
	var parsed ParsedReview
	if err := json.Unmarshal([]byte(stripFences(text)), &parsed); err != nil {
		return ParsedReview{}, fmt.Errorf("decode parsed review: %w", err)
	}
	return normalizeParsed(parsed), nil
}

func (g *Gemini) EnhancePhoto(ctx context.Context, img []byte, mimeType string, style PhotoStyle) ([]byte, error) {
	prompt := fmt.Sprintf(
		"Enhance this restaurant food photo for a business listing: %s. Keep the dish recognizable; do not add or remove elements.",
		photoStyleInstruction(style),
	)
	content, err := g.generate(ctx, imageModel, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{
			{Text: prompt},
			{InlineData: &geminiInlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(img)}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	for _, part := range content.Parts {
		if part.InlineData != nil {
			out, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode image: %w", err)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("gemini returned no image")
}

func (g *Gemini) OptimizeProfile(ctx context.Context, req ProfileRequest) (ProfileResult, error) {
	text, err := g.generateText(ctx, profilePrompt(req), &geminiGenConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return ProfileResult{}, err
	}
	var result ProfileResult
	if err := json.Unmarshal([]byte(stripFences(text)), &result); err != nil {
		return ProfileResult{}, fmt.Errorf("decode profile result: %w", err)
	}
	return result, nil
}

func (g *Gemini) DescribeDish(ctx context.Context, req MenuRequest) (string, error) {
	return g.generateText(ctx, dishPrompt(req), &geminiGenConfig{Temperature: 0.7})
}

func (g *Gemini) CreatePost(ctx context.Context, req PostRequest) (string, error) {
	return g.generateText(ctx, postPrompt(req), &geminiGenConfig{Temperature: 0.8})
}

func (g *Gemini) GenerateQnA(ctx context.Context, req QnARequest) ([]QnAPair, error) {
	text, err := g.generateText(ctx, qnaPrompt(req), &geminiGenConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return nil, err
	}
	var pairs []QnAPair
	if err := json.Unmarshal([]byte(stripFences(text)), &pairs); err != nil {
		return nil, fmt.Errorf("decode qna pairs: %w", err)
	}
	return pairs, nil
}
