package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/menucraft/menucraft/internal/menu"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiConfig holds the API key and model names.
type GeminiConfig struct {
	APIKey     string
	TextModel  string // e.g. "gemini-2.5-flash"
	ImageModel string // e.g. "imagen-4.0-generate-001"
}

// Gemini calls the Generative Language REST API.
type Gemini struct {
	config  GeminiConfig
	client  *http.Client
	baseURL string
}

func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.TextModel == "" {
		cfg.TextModel = "gemini-2.5-flash"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "imagen-4.0-generate-001"
	}
	return &Gemini{
		config:  cfg,
		client:  &http.Client{Timeout: 90 * time.Second},
		baseURL: defaultBaseURL,
	}
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
	ResponseSchema   any    `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func imagePart(img Image) part {
	mime := img.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return part{InlineData: &inlineData{MIMEType: mime, Data: base64.StdEncoding.EncodeToString(img.Data)}}
}

func (g *Gemini) Translate(ctx context.Context, text string, target menu.Language) (string, error) {
	prompt := fmt.Sprintf("Translate the following menu text to %s. Keep it concise and appetizing. Text: %q", languageName(target), text)
	return g.generate(ctx, []part{{Text: prompt}}, nil)
}

func (g *Gemini) GenerateDescription(ctx context.Context, dishName string, lang menu.Language) (string, error) {
	prompt := fmt.Sprintf("Write a short, appetizing description (max 20 words) for a dish named %q in %s.", dishName, languageName(lang))
	return g.generate(ctx, []part{{Text: prompt}}, nil)
}

var enhancementSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"brightness": map[string]string{"type": "NUMBER"},
		"contrast":   map[string]string{"type": "NUMBER"},
		"saturation": map[string]string{"type": "NUMBER"},
	},
}

func (g *Gemini) AnalyzeImage(ctx context.Context, img Image) (menu.ImageEnhancement, error) {
	prompt := "Analyze this food image. Provide JSON output with 'brightness', 'contrast', and 'saturation' values " +
		"(numbers between 0.8 and 1.5) that would make it look like a gorgeous studio shot. Output ONLY valid JSON."
	text, err := g.generate(ctx, []part{imagePart(img), {Text: prompt}}, &generationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   enhancementSchema,
	})
	if err != nil {
		return menu.ImageEnhancement{}, err
	}
	var e menu.ImageEnhancement
	if err := json.Unmarshal([]byte(stripFences(text)), &e); err != nil {
		return menu.ImageEnhancement{}, fmt.Errorf("decode enhancement: %w", err)
	}
	return e, nil
}

var extractSchema = map[string]any{
	"type": "ARRAY",
	"items": map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"category_name_en": map[string]string{"type": "STRING"},
			"category_name_th": map[string]string{"type": "STRING"},
			"items": map[string]any{
				"type": "ARRAY",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"name_en":        map[string]string{"type": "STRING"},
						"name_th":        map[string]string{"type": "STRING"},
						"description_en": map[string]string{"type": "STRING"},
						"description_th": map[string]string{"type": "STRING"},
						"price":          map[string]string{"type": "NUMBER"},
					},
				},
			},
		},
	},
}

const extractPrompt = `Analyze these menu images. Extract all menu items and group them by their category (e.g., Appetizers, Main Course, Drinks).
For each item, extract the price.
Translate the name and description to both English and Thai.
If a description is missing, generate a short one based on the dish name.
Return a JSON array of categories.`

func (g *Gemini) ExtractMenu(ctx context.Context, images []Image) ([]menu.ExtractedCategory, error) {
	if len(images) == 0 {
		return nil, errors.New("no images to extract")
	}
	parts := make([]part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, imagePart(img))
	}
	parts = append(parts, part{Text: extractPrompt})

	text, err := g.generate(ctx, parts, &generationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   extractSchema,
	})
	if err != nil {
		return nil, err
	}
	var cats []menu.ExtractedCategory
	if err := json.Unmarshal([]byte(stripFences(text)), &cats); err != nil {
		return nil, fmt.Errorf("decode extracted menu: %w", err)
	}
	return cats, nil
}

// TransformImage describes the dish in the photo, then asks the image
// model for a studio shot of that description. userPrompt replaces the
// generated prompt when set.
func (g *Gemini) TransformImage(ctx context.Context, img Image, userPrompt string) (GeneratedImage, error) {
	desc, err := g.generate(ctx, []part{
		imagePart(img),
		{Text: "Describe this food dish in detail. Focus on the main ingredients, plating, and colors. Keep it under 50 words."},
	}, nil)
	if err != nil {
		return GeneratedImage{}, fmt.Errorf("describe dish: %w", err)
	}
	desc = strings.TrimSpace(desc)

	prompt := userPrompt
	if prompt == "" {
		prompt = "Professional food photography of " + desc + ". High resolution, gorgeous studio shot, soft lighting, appetizing."
	}

	out, err := g.predictImage(ctx, prompt)
	if err != nil {
		return GeneratedImage{}, err
	}
	out.Prompt = prompt
	out.OriginalDescription = desc
	return out, nil
}

func (g *Gemini) generate(ctx context.Context, parts []part, cfg *generationConfig) (string, error) {
	var resp generateResponse
	err := g.post(ctx, g.config.TextModel+":generateContent", generateRequest{
		Contents:         []content{{Parts: parts}},
		GenerationConfig: cfg,
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty gemini response")
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MIMEType           string `json:"mimeType"`
	} `json:"predictions"`
}

func (g *Gemini) predictImage(ctx context.Context, prompt string) (GeneratedImage, error) {
	var resp predictResponse
	err := g.post(ctx, g.config.ImageModel+":predict", map[string]any{
		"instances":  []map[string]string{{"prompt": prompt}},
		"parameters": map[string]any{"sampleCount": 1, "aspectRatio": "1:1"},
	}, &resp)
	if err != nil {
		return GeneratedImage{}, err
	}
	if len(resp.Predictions) == 0 || resp.Predictions[0].BytesBase64Encoded == "" {
		return GeneratedImage{}, errors.New("no images returned")
	}
	p := resp.Predictions[0]
	data, err := base64.StdEncoding.DecodeString(p.BytesBase64Encoded)
	if err != nil {
		return GeneratedImage{}, fmt.Errorf("decode generated image: %w", err)
	}
	mime := p.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return GeneratedImage{MIMEType: mime, Data: data}, nil
}

func (g *Gemini) post(ctx context.Context, method string, payload, out any) error {
	if g.config.APIKey == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/models/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// stripFences removes a ```json ... ``` wrapper some model replies carry.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
