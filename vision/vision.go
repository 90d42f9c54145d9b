// Package vision detects image labels with Amazon Rekognition.
package vision

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const (
	// DefaultMaxLabels is the number of labels requested per image.
	DefaultMaxLabels = 10

	// DefaultMinConfidence is the confidence floor, in percent.
	DefaultMinConfidence = 70
)

// Client is the subset of the Rekognition API used by Detector.
type Client interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

var _ Client = (*rekognition.Client)(nil)

// Label is a detected label with its confidence in percent.
type Label struct {
	Name       string  `json:"Name"`
	Confidence float64 `json:"Confidence"`
}

// Options tunes a detection request. A nil MinConfidence takes the default;
// zero is a valid floor.
type Options struct {
	MaxLabels     int32
	MinConfidence *float32
}

// DefaultOptions returns the standard request bounds.
func DefaultOptions() Options {
	return Options{
		MaxLabels:     DefaultMaxLabels,
		MinConfidence: aws.Float32(DefaultMinConfidence),
	}
}

// Detector classifies images stored in S3.
type Detector struct {
	client Client
	opts   Options
}

// NewDetector creates a Detector. Unset option fields take their defaults.
func NewDetector(client Client, opts Options) *Detector {
	if opts.MaxLabels <= 0 {
		opts.MaxLabels = DefaultMaxLabels
	}
	if opts.MinConfidence == nil {
		opts.MinConfidence = aws.Float32(DefaultMinConfidence)
	}
	return &Detector{
		client: client,
		opts:   opts,
	}
}

// Detect returns the labels found in s3://bucket/key, highest confidence first
// as ranked by the service.
func (d *Detector) Detect(ctx context.Context, bucket, key string) ([]Label, error) {
	out, err := d.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
		MaxLabels:     aws.Int32(d.opts.MaxLabels),
		MinConfidence: d.opts.MinConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels for s3://%s/%s: %w", bucket, key, err)
	}

	labels := make([]Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		labels = append(labels, Label{
			Name:       aws.ToString(l.Name),
			Confidence: float64(aws.ToFloat32(l.Confidence)),
		})
	}
	return labels, nil
}

// Names reduces labels to their names, skipping unnamed entries.
func Names(labels []Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.Name != "" {
			names = append(names, l.Name)
		}
	}
	return names
}
