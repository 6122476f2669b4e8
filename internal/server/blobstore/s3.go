package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store keeps assets in a single S3 bucket. Objects are addressed by the
// key the caller supplies; the retrieval URL is the public bucket URL, or an
// endpoint-based one when a custom endpoint (minio etc.) is configured.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Store builds a store for bucket. baseEndpoint may be empty; when set
// it is used both for API calls (configured on the client by the caller)
// and for building retrieval URLs.
func NewS3Store(client *s3.Client, bucket, baseEndpoint string) *S3Store {
	baseURL := fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	if baseEndpoint != "" {
		baseURL = strings.TrimRight(baseEndpoint, "/") + "/" + bucket
	}
	return &S3Store{client: client, bucket: bucket, baseURL: baseURL}
}

func (s *S3Store) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete: %w", err)
	}
	return nil
}
