// Package queue acknowledges processed SQS messages.
package queue

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Client is the subset of the SQS API used by Acker.
type Client interface {
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

var _ Client = (*sqs.Client)(nil)

// Acker deletes messages from one queue.
type Acker struct {
	client   Client
	queueURL string
}

// NewAcker creates an Acker for queueURL.
func NewAcker(client Client, queueURL string) *Acker {
	return &Acker{
		client:   client,
		queueURL: queueURL,
	}
}

// Delete removes the delivery identified by receiptHandle so it is not redelivered.
func (a *Acker) Delete(ctx context.Context, receiptHandle string) error {
	_, err := a.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(a.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
