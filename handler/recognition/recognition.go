// Package recognition implements the queue handler that labels uploaded images.
package recognition

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/imagepipe/notify"
	"github.com/jacentio/imagepipe/queue"
	"github.com/jacentio/imagepipe/vision"
)

// Detector labels an image stored in S3.
type Detector interface {
	Detect(ctx context.Context, bucket, key string) ([]vision.Label, error)
}

// Publisher records and announces the labels of an image.
type Publisher interface {
	Publish(ctx context.Context, image string, names []string) error
}

// Acker removes a processed message from the queue.
type Acker interface {
	Delete(ctx context.Context, receiptHandle string) error
}

var (
	_ Detector  = (*vision.Detector)(nil)
	_ Publisher = (*notify.Publisher)(nil)
	_ Acker     = (*queue.Acker)(nil)
)

// Handler processes SQS batches of S3 upload notifications.
type Handler struct {
	detector  Detector
	publisher Publisher
	acker     Acker
	logger    *slog.Logger
}

// NewHandler creates a recognition Handler.
func NewHandler(detector Detector, publisher Publisher, acker Acker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		detector:  detector,
		publisher: publisher,
		acker:     acker,
		logger:    logger,
	}
}

// HandleSQS labels every image referenced by the batch. The first failure
// stops the batch and is returned so the runtime redelivers it.
func (h *Handler) HandleSQS(ctx context.Context, event events.SQSEvent) error {
	for _, msg := range event.Records {
		if err := h.processMessage(ctx, msg); err != nil {
			h.logger.Error("error processing records",
				"messageID", msg.MessageId,
				"error", err,
			)
			return err
		}
	}
	return nil
}

func (h *Handler) processMessage(ctx context.Context, msg events.SQSMessage) error {
	body := msg.Body
	if body == "" {
		body = "{}"
	}
	var notification events.S3Event
	if err := json.Unmarshal([]byte(body), &notification); err != nil {
		return fmt.Errorf("decode message %s: %w", msg.MessageId, err)
	}

	for _, record := range notification.Records {
		bucket := record.S3.Bucket.Name
		key := objectKey(record.S3.Object)
		if bucket == "" || key == "" {
			h.logger.Warn("skipping record due to missing bucket name or key", "messageID", msg.MessageId)
			continue
		}

		labels, err := h.detector.Detect(ctx, bucket, key)
		if err != nil {
			return err
		}
		names := vision.Names(labels)
		h.logger.Info("detected labels", "key", key, "labels", names)

		if err := h.publisher.Publish(ctx, key, names); err != nil {
			return err
		}

		if err := h.acker.Delete(ctx, msg.ReceiptHandle); err != nil {
			return err
		}
		h.logger.Info("deleted message", "key", key, "messageID", msg.MessageId)
	}
	return nil
}

// objectKey returns the decoded object key. S3 notifications carry keys in
// form-encoded form.
func objectKey(obj events.S3Object) string {
	decoded, err := url.QueryUnescape(obj.Key)
	if err != nil {
		return obj.Key
	}
	return decoded
}
