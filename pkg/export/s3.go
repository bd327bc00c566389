package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3Publisher uploads rendered pages to an S3 bucket, typically one
// fronted by a CDN.
type S3Publisher struct {
	client       *s3.Client
	bucket       string
	prefix       string
	cacheControl string
	logger       zerolog.Logger
}

// NewS3Publisher creates a publisher writing under bucket/prefix.
func NewS3Publisher(client *s3.Client, bucket, prefix string, logger zerolog.Logger) *S3Publisher {
	return &S3Publisher{
		client:       client,
		bucket:       bucket,
		prefix:       strings.TrimSuffix(prefix, "/"),
		cacheControl: "public, max-age=300",
		logger:       logger,
	}
}

// WithCacheControl overrides the Cache-Control header stored on objects.
func (p *S3Publisher) WithCacheControl(value string) *S3Publisher {
	p.cacheControl = value
	return p
}

// Publish uploads one page. Keys are normalized under the configured
// prefix; "/" maps to "index.html".
func (p *S3Publisher) Publish(ctx context.Context, key string, html []byte) error {
	objectKey := p.objectKey(key)

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(objectKey),
		Body:         bytes.NewReader(html),
		ContentType:  aws.String("text/html; charset=utf-8"),
		CacheControl: aws.String(p.cacheControl),
	})
	if err != nil {
		return fmt.Errorf("export: put s3://%s/%s: %w", p.bucket, objectKey, err)
	}

	p.logger.Info().
		Str("bucket", p.bucket).
		Str("key", objectKey).
		Int("bytes", len(html)).
		Msg("page published")
	return nil
}

func (p *S3Publisher) objectKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		key = "index.html"
	} else if !strings.Contains(key, ".") {
		key += ".html"
	}
	if p.prefix == "" {
		return key
	}
	return p.prefix + "/" + key
}
