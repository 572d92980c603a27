// Package objstore holds binary document content. The record store keeps
// only metadata; bytes live in S3 behind a token-keyed retrieval URL.
package objstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"heirloom/pkg/apperr"
	"heirloom/pkg/logger"
)

// ObjectStore accepts a byte stream plus content-type metadata and returns a
// publicly resolvable retrieval URL keyed by an access token.
type ObjectStore interface {
	Put(ctx context.Context, filename, contentType, accessToken string, body io.Reader) (string, error)
}

// S3Store implements ObjectStore on an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME environment variable is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, filename, contentType, accessToken string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(filename),
		Body:        body,
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"access-token": accessToken},
	})
	if err != nil {
		logger.Sugar.Errorf("Failed to upload %s to S3: %v", filename, err)
		return "", apperr.Storef(err, "Document could not be uploaded")
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s?token=%s",
		s.bucket, s.region, filename, accessToken)
	return url, nil
}
