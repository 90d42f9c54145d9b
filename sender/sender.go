// Package sender posts XML documents to an endpoint held in SSM Parameter Store.
package sender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
)

const (
	// DefaultParameter is the SSM parameter holding the endpoint URL.
	DefaultParameter = "thirdparty_endpoint"

	// DefaultTimeout bounds a single POST.
	DefaultTimeout = 10 * time.Second

	// ContentType is sent with every document.
	ContentType = "application/xml"
)

var (
	// ErrEndpointNotFound is returned when the endpoint parameter does not exist.
	ErrEndpointNotFound = errors.New("imagepipe: endpoint parameter not found")

	// ErrResolve is returned for any other failure reading the endpoint parameter.
	ErrResolve = errors.New("imagepipe: resolve endpoint failed")
)

// StatusError reports a non-success response from the endpoint.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("POST %s returned status %d", e.Endpoint, e.StatusCode)
}

// Client is the subset of the SSM API used by Sender.
type Client interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

var _ Client = (*ssm.Client)(nil)

// Sender resolves the endpoint and delivers documents to it.
type Sender struct {
	client     Client
	parameter  string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Sender.
type Option func(*Sender)

// WithParameter sets the SSM parameter name holding the endpoint.
func WithParameter(name string) Option {
	return func(s *Sender) {
		if name != "" {
			s.parameter = name
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		s.httpClient = c
	}
}

// WithTimeout replaces the HTTP client with one bounded by d.
func WithTimeout(d time.Duration) Option {
	return func(s *Sender) {
		if d > 0 {
			s.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		s.logger = l
	}
}

// New creates a Sender reading DefaultParameter with DefaultTimeout.
func New(client Client, opts ...Option) *Sender {
	s := &Sender{
		client:     client,
		parameter:  DefaultParameter,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Endpoint reads the endpoint URL from Parameter Store. The value is not cached.
func (s *Sender) Endpoint(ctx context.Context) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.parameter),
		WithDecryption: aws.Bool(false),
	})
	if err != nil {
		return "", classify(s.parameter, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("%w: %s has no value", ErrEndpointNotFound, s.parameter)
	}
	return aws.ToString(out.Parameter.Value), nil
}

// Send posts body to the current endpoint and returns the response status.
// A non-2xx status is returned together with a *StatusError.
func (s *Sender) Send(ctx context.Context, body []byte) (int, error) {
	endpoint, err := s.Endpoint(ctx)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", ContentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("POST request failed", "endpoint", endpoint, "error", err)
		return 0, fmt.Errorf("post to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	s.logger.Info("POST request returned status",
		"endpoint", endpoint,
		"status", resp.StatusCode,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	return resp.StatusCode, nil
}

func classify(parameter string, err error) error {
	var notFound *types.ParameterNotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s: %w", ErrEndpointNotFound, parameter, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: %s: %w", ErrResolve, parameter, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%w: %s: %w", ErrResolve, parameter, err)
}
