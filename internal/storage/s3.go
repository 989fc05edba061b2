// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package storage

import (
	"bytes"
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// # S3-Compatible Client

// S3Config holds the provider settings for an S3-compatible bucket
// (Supabase storage, MinIO, R2, plain S3).
type S3Config struct {
	// BaseURL is the public prefix persisted URLs are built from.
	BaseURL string
	// Endpoint is the S3 API endpoint of the provider.
	Endpoint string
	// Region defaults to "auto" for S3-compatible providers.
	Region string
	// Bucket is the target bucket; it must already exist.
	Bucket string
	// AccessKey and SecretKey are static credentials.
	AccessKey string
	SecretKey string
}

// S3Client implements Client against any S3-compatible endpoint.
type S3Client struct {
	client  *s3.Client
	presign *s3.PresignClient
	baseURL string
	bucket  string
	logger  *slog.Logger
}

// Compile-time interface check.
var _ Client = (*S3Client)(nil)

// NewS3Client builds the provider client and validates the configuration.
// It performs no network call; readiness probes verify connectivity.
func NewS3Client(ctx stdctx.Context, cfg S3Config, logger *slog.Logger) (*S3Client, error) {

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket name is required", ErrInvalidInput)
	}
	if cfg.Endpoint == "" || cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: endpoint and base URL are required", ErrInvalidInput)
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load provider config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		options.BaseEndpoint = aws.String(cfg.Endpoint)
		// Path-style addressing works across all S3-compatible providers.
		options.UsePathStyle = true
	})

	logger.Info("storage_client_ready",
		slog.String("bucket", cfg.Bucket),
		slog.String("endpoint", cfg.Endpoint),
	)

	return &S3Client{
		client:  client,
		presign: s3.NewPresignClient(client),
		baseURL: cfg.BaseURL,
		bucket:  cfg.Bucket,
		logger:  logger,
	}, nil
}

/*
Put uploads a blob and returns the public URL to persist.

Unless Upsert is requested, the write is conditional (If-None-Match: *) so
an existing object is never silently overwritten; a collision regenerates
the key and retries, bounded by the shared retry budget.

# Parameters
  - context: Caller context; each attempt also gets its own per-call deadline.
  - blob: Full object content, already validated by the upload coordinator.
  - options: Folder, client filename, content type and upsert flag.

# Returns
  - string: The public URL of the stored object.
  - error: ErrUnavailable on provider failure, ErrInvalidInput on empty blobs.
*/
func (storageClient *S3Client) Put(context stdctx.Context, blob []byte, options PutOptions) (string, error) {

	if len(blob) == 0 {
		return "", fmt.Errorf("%w: empty blob", ErrInvalidInput)
	}

	uploader := manager.NewUploader(storageClient.client)

	key, err := putWithRetry(context, options, func(attemptCtx stdctx.Context, key string) error {

		input := &s3.PutObjectInput{
			Bucket:      aws.String(storageClient.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(blob),
			ContentType: aws.String(options.ContentType),
		}

		if !options.Upsert {
			input.IfNoneMatch = aws.String("*")
		}

		if _, err := uploader.Upload(attemptCtx, input); err != nil {
			return storageClient.classify(err)
		}

		return nil
	})
	if err != nil {
		storageClient.logger.Warn("storage_put_failed",
			slog.String("folder", options.Folder),
			slog.Any("error", err),
		)
		return "", err
	}

	return PublicURL(storageClient.baseURL, storageClient.bucket, key), nil
}

/*
Delete removes the object behind a public URL or raw key.

Deletion is idempotent: an already-absent object is treated as success so
that cleanup paths can run repeatedly without error handling ceremony.
*/
func (storageClient *S3Client) Delete(context stdctx.Context, publicURLOrKey string) error {

	key := KeyFromURL(storageClient.baseURL, storageClient.bucket, publicURLOrKey)
	if key == "" {
		return nil
	}

	callCtx, cancel := withCallTimeout(context)
	defer cancel()

	_, err := storageClient.client.DeleteObject(callCtx, &s3.DeleteObjectInput{
		Bucket: aws.String(storageClient.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		classified := storageClient.classify(err)
		if errors.Is(classified, ErrNotFound) {
			return nil
		}
		return classified
	}

	return nil
}

// Healthcheck verifies the bucket is reachable with the configured
// credentials. Used by the readiness probe.
func (storageClient *S3Client) Healthcheck(context stdctx.Context) error {

	callCtx, cancel := withCallTimeout(context)
	defer cancel()

	_, err := storageClient.client.HeadBucket(callCtx, &s3.HeadBucketInput{
		Bucket: aws.String(storageClient.bucket),
	})
	if err != nil {
		return storageClient.classify(err)
	}

	return nil
}

// SignedURL returns a presigned GET URL with the given lifetime.
func (storageClient *S3Client) SignedURL(context stdctx.Context, publicURLOrKey string, ttl time.Duration) (string, error) {

	key := KeyFromURL(storageClient.baseURL, storageClient.bucket, publicURLOrKey)

	callCtx, cancel := withCallTimeout(context)
	defer cancel()

	result, err := storageClient.presign.PresignGetObject(callCtx, &s3.GetObjectInput{
		Bucket: aws.String(storageClient.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", storageClient.classify(err)
	}

	return result.URL, nil
}

// classify maps provider errors onto the package taxonomy.
func (storageClient *S3Client) classify(err error) error {

	// A timed-out attempt is a transient provider failure.
	if errors.Is(err, stdctx.DeadlineExceeded) || errors.Is(err, stdctx.Canceled) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var responseErr *smithyhttp.ResponseError
	if errors.As(err, &responseErr) {
		switch responseErr.HTTPStatusCode() {
		case http.StatusPreconditionFailed:
			// Conditional put hit an existing key.
			return errKeyTaken
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case http.StatusBadRequest, http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed":
			return errKeyTaken
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case "InvalidRequest", "AccessDenied":
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	// Anything else (connection reset, DNS, 5xx) is transient.
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
