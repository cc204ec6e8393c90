// Package ai talks to the generative model used for translation, dish
// descriptions, photo analysis and menu import.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/menucraft/menucraft/internal/menu"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("ai backend not configured")

// Image is a raw image payload.
type Image struct {
	MIMEType string
	Data     []byte
}

// GeneratedImage is a new dish photo produced from an existing one.
type GeneratedImage struct {
	MIMEType            string `json:"mimeType"`
	Data                []byte `json:"-"`
	Prompt              string `json:"prompt"`
	OriginalDescription string `json:"originalDescription"`
}

// Client is one generative backend. Implementations return errors as is;
// Service applies the fallbacks.
type Client interface {
	Translate(ctx context.Context, text string, target menu.Language) (string, error)
	GenerateDescription(ctx context.Context, dishName string, lang menu.Language) (string, error)
	AnalyzeImage(ctx context.Context, img Image) (menu.ImageEnhancement, error)
	ExtractMenu(ctx context.Context, images []Image) ([]menu.ExtractedCategory, error)
	TransformImage(ctx context.Context, img Image, userPrompt string) (GeneratedImage, error)
}

// AiServiceError records which call failed. It is logged, never shown to
// diners.
type AiServiceError struct {
	Op  string
	Err error
}

func (e *AiServiceError) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

func (e *AiServiceError) Unwrap() error { return e.Err }

func languageName(lang menu.Language) string {
	if lang == menu.English {
		return "English"
	}
	return "Thai"
}
