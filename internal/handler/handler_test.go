package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/menucraft/menucraft/internal/menu"
	"github.com/menucraft/menucraft/internal/menusync"
)

func TestWriteMenuError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, verr := menu.Rename(menu.CreateBootstrapMenu("o"), "")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", verr, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("apply: %w", verr), http.StatusBadRequest},
		{"sync", &menusync.SyncError{Op: "load", Key: "o", Err: errors.New("offline")}, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeMenuError(rec, logger, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] == nil {
				t.Error("expected error message")
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := map[float64]string{
		320:  "฿320",
		0:    "฿0",
		99.5: "฿99.50",
	}
	for in, want := range tests {
		if got := formatPrice(in); got != want {
			t.Errorf("formatPrice(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"javascript:alert(1)", ""},
		{"data:text/html,hi", ""},
	}
	for _, tt := range tests {
		if got := string(imageURL(tt.in)); got != tt.want {
			t.Errorf("imageURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewShareLinks(t *testing.T) {
	links := newShareLinks("https://menus.example.com", "abc")
	if links.URL != "https://menus.example.com/menu/abc" {
		t.Errorf("url = %q", links.URL)
	}
	want := "https://api.qrserver.com/v1/create-qr-code/?size=1000x1000&data=https%3A%2F%2Fmenus.example.com%2Fmenu%2Fabc"
	if links.DownloadURL != want {
		t.Errorf("download = %q", links.DownloadURL)
	}
}

func TestPagesParse(t *testing.T) {
	p := NewPages(nil, nil, nil, "http://localhost", slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := httptest.NewRecorder()
	p.NotFound(rec, httptest.NewRequest("GET", "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	p.MenuUnavailable(rec, httptest.NewRequest("GET", "/menu/broken", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "Menu unavailable") {
		t.Errorf("unavailable = %d", rec.Code)
	}
}
