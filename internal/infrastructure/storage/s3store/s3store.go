// Package s3store uploads profile pictures to an S3-compatible bucket.
package s3store

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Config captures the bucket location and credentials.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS; set for R2, MinIO and friends
	AccessKey string
	SecretKey string
	// PublicBaseURL prefixes object keys to build the URL saved on the user.
	// Defaults to <endpoint>/<bucket>.
	PublicBaseURL string
}

// Store implements ports.PictureStore.
type Store struct {
	uploader *s3manager.Uploader
	bucket   string
	baseURL  string
}

// New builds a Store from cfg.
func New(cfg Config) (*Store, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg := &aws.Config{
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", region)
		}
		base = fmt.Sprintf("%s/%s", strings.TrimRight(endpoint, "/"), cfg.Bucket)
	}

	return &Store{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimRight(base, "/"),
	}, nil
}

// Upload stores body under key with a public-read ACL and returns its public URL.
func (s *Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// PublicURL returns the URL an uploaded key is served from.
func (s *Store) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}
