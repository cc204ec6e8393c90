// Package media stores dish photos and header images in S3-compatible
// object storage.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxImageSize caps a single upload.
const MaxImageSize = 8 << 20

var (
	ErrNotConfigured = errors.New("media storage not configured")
	ErrUnsupported   = errors.New("unsupported image type")
	ErrTooLarge      = errors.New("image too large")
)

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration. PublicBaseURL is the
// address objects are served from (a CDN or the bucket's public endpoint).
type S3Config struct {
	Endpoint      string
	Bucket        string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

type Store struct {
	cfg    S3Config
	client s3Client
}

// NewStore returns a Store that reports ErrNotConfigured until bucket and
// credentials are all set.
func NewStore(cfg S3Config) *Store {
	s := &Store{cfg: cfg}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		s.client = newS3Client(cfg)
	}
	return s
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func (s *Store) Configured() bool {
	return s.client != nil
}

// Put uploads an image under menus/<menuID>/ and returns its public URL.
func (s *Store) Put(ctx context.Context, menuID, contentType string, data []byte) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, contentType)
	}
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}

	key := fmt.Sprintf("menus/%s/%s.%s", menuID, uuid.NewString(), ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}
	return s.publicURL(key), nil
}

// PutDataURI uploads a data:image/...;base64 URI.
func (s *Store) PutDataURI(ctx context.Context, menuID, uri string) (string, error) {
	contentType, data, err := ParseDataURI(uri)
	if err != nil {
		return "", err
	}
	return s.Put(ctx, menuID, contentType, data)
}

func (s *Store) publicURL(key string) string {
	base := s.cfg.PublicBaseURL
	if base == "" {
		endpoint := s.cfg.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", s.cfg.Region)
		}
		base = strings.TrimRight(endpoint, "/") + "/" + s.cfg.Bucket
	}
	return strings.TrimRight(base, "/") + "/" + key
}

// ParseDataURI splits a base64 data URI into its content type and bytes.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errors.New("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URI")
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, errors.New("data URI is not base64")
	}
	if _, ok := extensions[contentType]; !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupported, contentType)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return "", nil, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return contentType, data, nil
}
