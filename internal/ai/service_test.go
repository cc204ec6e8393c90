package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/menucraft/menucraft/internal/menu"
)

var errDown = errors.New("backend down")

// downClient fails every call.
type downClient struct{}

func (downClient) Translate(context.Context, string, menu.Language) (string, error) {
	return "", errDown
}
func (downClient) GenerateDescription(context.Context, string, menu.Language) (string, error) {
	return "", errDown
}
func (downClient) AnalyzeImage(context.Context, Image) (menu.ImageEnhancement, error) {
	return menu.ImageEnhancement{}, errDown
}
func (downClient) ExtractMenu(context.Context, []Image) ([]menu.ExtractedCategory, error) {
	return nil, errDown
}
func (downClient) TransformImage(context.Context, Image, string) (GeneratedImage, error) {
	return GeneratedImage{}, errDown
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServiceFallbacks(t *testing.T) {
	for name, client := range map[string]Client{"failing": downClient{}, "unconfigured": nil} {
		t.Run(name, func(t *testing.T) {
			s := NewService(client, discardLogger())
			ctx := context.Background()

			if got := s.Translate(ctx, "Tom Yum", menu.Thai); got != "Tom Yum" {
				t.Errorf("translate = %q, want original text", got)
			}
			if got := s.GenerateDescription(ctx, "Tom Yum", menu.English); got != "" {
				t.Errorf("description = %q, want empty", got)
			}
			if got := s.AnalyzeImage(ctx, Image{}); got != DefaultEnhancement {
				t.Errorf("enhancement = %+v, want default", got)
			}
			if got := s.ExtractMenu(ctx, []Image{{}}); got == nil || len(got) != 0 {
				t.Errorf("extract = %v, want empty slice", got)
			}

			_, err := s.TransformImage(ctx, Image{}, "")
			var aerr *AiServiceError
			if !errors.As(err, &aerr) {
				t.Fatalf("transform err = %v, want *AiServiceError", err)
			}
			if aerr.Op != "transform image" {
				t.Errorf("op = %q", aerr.Op)
			}
		})
	}
}

func TestServicePassesThrough(t *testing.T) {
	g := testGemini(fakeGemini(t, "แกงเขียวหวาน").URL)
	s := NewService(g, discardLogger())
	if got := s.Translate(context.Background(), "Green Curry", menu.Thai); got != "แกงเขียวหวาน" {
		t.Errorf("translate = %q", got)
	}
}
