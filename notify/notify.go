// Package notify records classification results and announces them on SNS.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/jacentio/imagepipe/store"
)

// DefaultSubject is the SNS subject used when none is configured.
const DefaultSubject = "Image recognition complete"

var (
	// ErrRecord is returned when the classification record cannot be written.
	ErrRecord = errors.New("imagepipe: write classification record failed")

	// ErrPublish is returned when the notification cannot be published.
	// The record has already been written when this is returned.
	ErrPublish = errors.New("imagepipe: publish notification failed")
)

// Client is the subset of the SNS API used by Publisher.
type Client interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

var _ Client = (*sns.Client)(nil)

// RecordWriter persists a record into a table.
type RecordWriter interface {
	PutRecord(ctx context.Context, table string, v any) error
}

var _ RecordWriter = (*store.Store)(nil)

// Record is the stored classification of one image.
type Record struct {
	Image  string `dynamodbav:"image" json:"image"`
	Labels string `dynamodbav:"labels" json:"labels"`
}

// Config holds publisher destinations.
type Config struct {
	// TableName is the classifications table.
	TableName string

	// TopicARN is the SNS topic notified after each write.
	TopicARN string

	// Subject is the SNS message subject. Default: DefaultSubject
	Subject string
}

// Publisher writes classification records and publishes notifications.
type Publisher struct {
	records RecordWriter
	client  Client
	config  Config
	logger  *slog.Logger
}

// NewPublisher creates a Publisher.
func NewPublisher(records RecordWriter, client Client, config Config, logger *slog.Logger) *Publisher {
	if config.Subject == "" {
		config.Subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		records: records,
		client:  client,
		config:  config,
		logger:  logger,
	}
}

// Publish stores the label names for image and then notifies the topic with
// the same encoded list. The two steps are independent: a failed write skips
// the publish, and a failed publish leaves the written record in place.
func (p *Publisher) Publish(ctx context.Context, image string, names []string) error {
	encoded, err := EncodeLabels(names)
	if err != nil {
		return err
	}

	record := Record{Image: image, Labels: encoded}
	if err := p.records.PutRecord(ctx, p.config.TableName, record); err != nil {
		return fmt.Errorf("%w: %w", ErrRecord, err)
	}
	p.logger.Info("wrote labels", "image", image, "table", p.config.TableName)

	out, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.config.TopicARN),
		Message:  aws.String(encoded),
		Subject:  aws.String(p.config.Subject),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	p.logger.Info("published notification",
		"image", image,
		"messageID", aws.ToString(out.MessageId),
	)
	return nil
}

// EncodeLabels renders label names as a JSON array string.
func EncodeLabels(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	b, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("encode labels: %w", err)
	}
	return string(b), nil
}
