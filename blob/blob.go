// Package blob writes objects to S3.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	// ErrNoData is returned when there is nothing to write. No request is made.
	ErrNoData = errors.New("imagepipe: no data to upload")

	// ErrUpload is returned when S3 rejects the write.
	ErrUpload = errors.New("imagepipe: upload failed")
)

// Client is the subset of the S3 API used by Writer.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ Client = (*s3.Client)(nil)

// Writer stores bytes under a key in a bucket.
type Writer struct {
	client Client
	logger *slog.Logger
}

// NewWriter creates a Writer.
func NewWriter(client Client, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		client: client,
		logger: logger,
	}
}

// Put writes data to bucket/key in a single attempt.
func (w *Writer) Put(ctx context.Context, bucket, key string, data []byte) error {
	if data == nil {
		w.logger.Warn("no data to upload", "bucket", bucket, "key", key)
		return ErrNoData
	}

	w.logger.Info("uploading image", "bucket", bucket, "key", key, "bytes", len(data))
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	}, func(o *s3.Options) {
		o.RetryMaxAttempts = 1
	})
	if err != nil {
		w.logger.Error("error uploading image", "bucket", bucket, "key", key, "error", err)
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}

	w.logger.Info("image uploaded", "bucket", bucket, "key", key)
	return nil
}
