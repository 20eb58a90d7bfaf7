package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	appconfig "gear-tracker-go/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/h2non/bimg"
)

// ImageStore writes an uploaded instrument photo and its thumbnail to
// object storage and hands back public URLs.
type ImageStore interface {
	UploadInstrumentImage(ctx context.Context, ownerID, filename, contentType string, data []byte) (UploadResult, error)
}

type UploadResult struct {
	ImageURL     string
	ThumbnailURL string
}

type S3Store struct {
	client         *s3.Client
	bucket         string
	publicBaseURL  string
	thumbnailWidth int
}

func NewS3(ctx context.Context, cfg appconfig.StorageConfig) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	width := cfg.ThumbnailWidth
	if width <= 0 {
		width = 320
	}

	return &S3Store{
		client:         client,
		bucket:         cfg.Bucket,
		publicBaseURL:  strings.TrimRight(cfg.PublicBaseURL, "/"),
		thumbnailWidth: width,
	}, nil
}

func (s *S3Store) UploadInstrumentImage(ctx context.Context, ownerID, filename, contentType string, data []byte) (UploadResult, error) {
	imageID := uuid.NewString()
	originalKey := fmt.Sprintf("instruments/%s/originals/%s_%s", ownerID, imageID, sanitizeFilename(filename))

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(originalKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}); err != nil {
		return UploadResult{}, fmt.Errorf("upload image: %w", err)
	}

	result := UploadResult{ImageURL: s.publicURL(originalKey)}

	thumbnail, err := bimg.NewImage(data).Process(bimg.Options{Width: s.thumbnailWidth})
	if err != nil {
		// The original is already stored; a record without a thumbnail
		// is still usable.
		return result, nil
	}

	thumbnailKey := fmt.Sprintf("instruments/%s/thumbnails/%s_%s", ownerID, imageID, sanitizeFilename(filename))
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(thumbnailKey),
		Body:        bytes.NewReader(thumbnail),
		ContentType: aws.String(contentType),
	}); err != nil {
		return result, nil
	}

	result.ThumbnailURL = s.publicURL(thumbnailKey)
	return result, nil
}

func (s *S3Store) publicURL(key string) string {
	if s.publicBaseURL == "" {
		return fmt.Sprintf("s3://%s/%s", s.bucket, key)
	}
	return s.publicBaseURL + "/" + key
}

func sanitizeFilename(filename string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, filename)
}
