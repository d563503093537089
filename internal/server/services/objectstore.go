package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/sibeni-li/khronos/internal/server/config"
)

// ErrStorageDisabled is returned when no bucket is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ObjectStore talks to an S3-compatible backend (MinIO in development).
// The client is built on first use.
type ObjectStore struct {
	config *sc.Config

	mu     sync.Mutex
	client *s3.Client
}

func NewObjectStore(cfg *sc.Config) *ObjectStore {
	return &ObjectStore{config: cfg}
}

func (o *ObjectStore) getClient(ctx context.Context) (*s3.Client, error) {
	if !o.config.StorageEnabled() {
		return nil, ErrStorageDisabled
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.client != nil {
		return o.client, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.config.S3RootUser,
			o.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	o.client = newS3ClientFromConfig(cfg, func(opts *s3.Options) {
		opts.BaseEndpoint = aws.String(o.config.S3BaseEndpoint)
		opts.UsePathStyle = true
	})
	return o.client, nil
}

// Archive uploads body under key.
func (o *ObjectStore) Archive(ctx context.Context, key string, body []byte) error {
	client, err := o.getClient(ctx)
	if err != nil {
		return err
	}

	bucket := o.config.S3Bucket
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/json"),
	})
	return err
}

// LibraryURL presigns a short-lived GET for the profiler library archive.
func (o *ObjectStore) LibraryURL(ctx context.Context) (string, error) {
	client, err := o.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := o.config.S3Bucket
	key := o.config.LibraryKey

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
