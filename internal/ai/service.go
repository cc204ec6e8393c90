package ai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/menucraft/menucraft/internal/menu"
)

// DefaultEnhancement is used when a photo cannot be analysed.
var DefaultEnhancement = menu.ImageEnhancement{Brightness: 1.1, Contrast: 1.1, Saturation: 1.2}

// Service wraps a Client and turns every failure into a usable default so
// the editor keeps working without the model.
type Service struct {
	client Client
	logger *slog.Logger
}

// NewService accepts a nil client, in which case every call falls back.
func NewService(client Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger.With("component", "ai")}
}

// Configured reports whether a backend is set.
func (s *Service) Configured() bool {
	return s.client != nil
}

func (s *Service) fail(op string, err error) *AiServiceError {
	aerr := &AiServiceError{Op: op, Err: err}
	s.logger.Warn("ai call failed, using fallback", "op", op, "error", err)
	return aerr
}

// Translate returns the original text when translation fails.
func (s *Service) Translate(ctx context.Context, text string, target menu.Language) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if s.client == nil {
		s.fail("translate", ErrNotConfigured)
		return text
	}
	out, err := s.client.Translate(ctx, text, target)
	if err != nil {
		s.fail("translate", err)
		return text
	}
	if out = strings.TrimSpace(out); out == "" {
		return text
	}
	return out
}

// GenerateDescription returns "" when generation fails.
func (s *Service) GenerateDescription(ctx context.Context, dishName string, lang menu.Language) string {
	if s.client == nil {
		s.fail("generate description", ErrNotConfigured)
		return ""
	}
	out, err := s.client.GenerateDescription(ctx, dishName, lang)
	if err != nil {
		s.fail("generate description", err)
		return ""
	}
	return strings.TrimSpace(out)
}

// AnalyzeImage returns DefaultEnhancement when analysis fails.
func (s *Service) AnalyzeImage(ctx context.Context, img Image) menu.ImageEnhancement {
	if s.client == nil {
		s.fail("analyze image", ErrNotConfigured)
		return DefaultEnhancement
	}
	e, err := s.client.AnalyzeImage(ctx, img)
	if err != nil {
		s.fail("analyze image", err)
		return DefaultEnhancement
	}
	return e
}

// ExtractMenu returns an empty slice when extraction fails or the model
// answers with something that is not the expected JSON.
func (s *Service) ExtractMenu(ctx context.Context, images []Image) []menu.ExtractedCategory {
	if s.client == nil {
		s.fail("extract menu", ErrNotConfigured)
		return []menu.ExtractedCategory{}
	}
	cats, err := s.client.ExtractMenu(ctx, images)
	if err != nil {
		s.fail("extract menu", err)
		return []menu.ExtractedCategory{}
	}
	if cats == nil {
		cats = []menu.ExtractedCategory{}
	}
	return cats
}

// TransformImage has no sensible fallback image, so the error is returned
// and the caller keeps the original photo.
func (s *Service) TransformImage(ctx context.Context, img Image, userPrompt string) (GeneratedImage, error) {
	if s.client == nil {
		return GeneratedImage{}, s.fail("transform image", ErrNotConfigured)
	}
	out, err := s.client.TransformImage(ctx, img, userPrompt)
	if err != nil {
		return GeneratedImage{}, s.fail("transform image", err)
	}
	return out, nil
}
