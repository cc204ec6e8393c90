package media

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	m.types[*input.Key] = *input.ContentType
	return &s3.PutObjectOutput{}, nil
}

func testStore(mock *mockS3Client) *Store {
	return &Store{
		cfg:    S3Config{Bucket: "menus", PublicBaseURL: "https://cdn.example.com/"},
		client: mock,
	}
}

func TestPutDataURI(t *testing.T) {
	mock := newMockS3()
	s := testStore(mock)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake-png"))

	url, err := s.PutDataURI(context.Background(), "owner-1", uri)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/menus/owner-1/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q", url)
	}

	key := strings.TrimPrefix(url, "https://cdn.example.com/")
	if string(mock.objects[key]) != "fake-png" {
		t.Errorf("stored = %q", mock.objects[key])
	}
	if mock.types[key] != "image/png" {
		t.Errorf("content type = %q", mock.types[key])
	}
}

func TestPutRejects(t *testing.T) {
	s := testStore(newMockS3())
	ctx := context.Background()

	if _, err := s.Put(ctx, "o", "application/pdf", []byte("x")); !errors.Is(err, ErrUnsupported) {
		t.Errorf("pdf err = %v, want ErrUnsupported", err)
	}
	if _, err := s.Put(ctx, "o", "image/jpeg", make([]byte, MaxImageSize+1)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("large err = %v, want ErrTooLarge", err)
	}
}

func TestPutUploadError(t *testing.T) {
	mock := newMockS3()
	mock.putErr = errors.New("access denied")
	if _, err := testStore(mock).Put(context.Background(), "o", "image/jpeg", []byte("x")); err == nil {
		t.Error("expected upload error")
	}
}

func TestNotConfigured(t *testing.T) {
	s := NewStore(S3Config{Bucket: "menus"})
	if s.Configured() {
		t.Error("store without credentials should not be configured")
	}
	if _, err := s.Put(context.Background(), "o", "image/jpeg", []byte("x")); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		uri     string
		wantErr bool
	}{
		{"data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8}), false},
		{"https://example.com/a.jpg", true},
		{"data:image/jpeg,rawbytes", true},
		{"data:text/plain;base64,aGk=", true},
		{"data:image/png;base64,!!!", true},
	}
	for _, tt := range tests {
		_, _, err := ParseDataURI(tt.uri)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDataURI(%.30q) err = %v, wantErr %v", tt.uri, err, tt.wantErr)
		}
	}
}

func TestPublicURLFallsBackToEndpoint(t *testing.T) {
	s := &Store{cfg: S3Config{Endpoint: "https://s3.example.com/", Bucket: "menus"}}
	if got := s.publicURL("menus/o/a.png"); got != "https://s3.example.com/menus/menus/o/a.png" {
		t.Errorf("url = %q", got)
	}
}
