package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/recipebox/recipebox/config"
)

// SpacesStore stores images in a DigitalOcean Spaces (S3-compatible) bucket.
type SpacesStore struct {
	client *s3.Client
	bucket string
	region string
	root   string
}

func NewSpacesStore(ctx context.Context, cfg config.SpacesConfig) (*SpacesStore, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load spaces config: %w", err)
	}

	return &SpacesStore{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
		root:   strings.Trim(cfg.Root, "/"),
	}, nil
}

func (s *SpacesStore) key(path string) string {
	if s.root == "" {
		return path
	}
	return s.root + "/" + path
}

func (s *SpacesStore) Save(ctx context.Context, path string, contentType string, body io.Reader) error {
	key := s.key(path)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
		ACL:         "public-read",
	})
	if err != nil {
		return fmt.Errorf("failed to upload image %s: %w", path, err)
	}
	return nil
}

func (s *SpacesStore) Remove(ctx context.Context, path string) error {
	key := s.key(path)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", path, err)
	}
	return nil
}

func (s *SpacesStore) URL(path string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, s.key(path))
}
