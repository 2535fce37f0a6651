package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Archiver copies finished conversion results to S3 so they survive the
// per-request scratch directory. Archiving is best effort and never blocks
// or fails a response.
type Archiver struct {
	uploader *manager.Uploader
	bucket   string
}

// NewArchiver builds the S3 client from the default credential chain.
// Explicit AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY take precedence when set.
func NewArchiver(ctx context.Context, bucket string) (*Archiver, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var opts []func(*awscfg.LoadOptions) error
	if key, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"); key != "" && secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, secret, ""),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &Archiver{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
	}, nil
}

// Archive stores one result under results/{date}/{name} and returns the key.
func (a *Archiver) Archive(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("results/%s/%s", time.Now().UTC().Format("2006-01-02"), name)

	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Debug().Str("bucket", a.bucket).Str("key", key).Int("size", len(data)).Msg("Result archived")
	return key, nil
}
