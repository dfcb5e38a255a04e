package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"snapshare/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// putObjectAPI is the slice of *s3.Client the writer uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Writer stores objects in an S3-compatible bucket (AWS, R2, MinIO).
type S3Writer struct {
	client        putObjectAPI
	bucket        string
	publicBaseURL string
}

// NewS3Writer builds a path-style client from the S3_* settings.
func NewS3Writer(ctx context.Context, cfg *config.Config) (*S3Writer, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("S3_BUCKET is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.S3Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = true
	})

	base := strings.TrimRight(cfg.S3PublicBaseURL, "/")
	if base == "" {
		if endpoint != "" {
			base = endpoint + "/" + cfg.S3Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
		}
	}

	return &S3Writer{client: client, bucket: cfg.S3Bucket, publicBaseURL: base}, nil
}

func (w *S3Writer) Name() string { return "s3" }

func (w *S3Writer) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(w.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (w *S3Writer) URL(key string) string {
	return w.publicBaseURL + "/" + key
}
