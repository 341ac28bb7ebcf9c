package storeinfra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/goliatone/go-itemstore/item"
)

// objectAPI is the subset of *s3.Client the store uses.
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options locates the collection object.
type S3Options struct {
	Bucket       string
	Key          string
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// S3Store keeps the collection as a single JSON object.
type S3Store struct {
	api    objectAPI
	bucket string
	key    string
}

// NewS3Store creates a store using the default AWS configuration chain.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return newS3Store(client, opts.Bucket, opts.Key), nil
}

func newS3Store(api objectAPI, bucket, key string) *S3Store {
	return &S3Store{api: api, bucket: bucket, key: key}
}

// Load fetches and decodes the collection object. A missing object is an empty collection.
func (s *S3Store) Load(ctx context.Context) ([]item.Item, error) {
	resp, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return []item.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get object s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read object s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return decodeCollection(data)
}

// Persist uploads the whole collection, replacing the previous object.
func (s *S3Store) Persist(ctx context.Context, items []item.Item) error {
	data, err := encodeCollection(items)
	if err != nil {
		return err
	}

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (s *S3Store) Close() error {
	return nil
}
