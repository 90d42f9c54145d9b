// Package upload implements the API handler that copies a remote image into S3.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/imagepipe/blob"
	"github.com/jacentio/imagepipe/fetch"
)

// Response messages.
const (
	MsgMissingQuery  = "Missing queryStringParameters in the event."
	MsgMissingParams = `Missing "url" or "name" in queryStringParameters.`
	MsgUploadFailed  = "Failed to upload image to S3."
	MsgUploaded      = "Successfully Uploaded Img!"
)

// Fetcher downloads the bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Writer stores bytes under a bucket and key.
type Writer interface {
	Put(ctx context.Context, bucket, key string, data []byte) error
}

var (
	_ Fetcher = (*fetch.Fetcher)(nil)
	_ Writer  = (*blob.Writer)(nil)
)

// Handler serves GET ?url=&name= requests.
type Handler struct {
	fetcher Fetcher
	writer  Writer
	bucket  string
	logger  *slog.Logger
}

// NewHandler creates a Handler writing into bucket.
func NewHandler(fetcher Fetcher, writer Writer, bucket string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		fetcher: fetcher,
		writer:  writer,
		bucket:  bucket,
		logger:  logger,
	}
}

// HandleRequest downloads url and stores it as name in the bucket.
func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.QueryStringParameters == nil {
		return respond(http.StatusBadRequest, MsgMissingQuery), nil
	}

	url := req.QueryStringParameters["url"]
	name := req.QueryStringParameters["name"]
	if url == "" || name == "" {
		h.logger.Warn("missing query parameters", "url", url, "name", name)
		return respond(http.StatusBadRequest, MsgMissingParams), nil
	}

	data, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		return respond(http.StatusInternalServerError, fmt.Sprintf("Failed to download image from %s", url)), nil
	}

	if err := h.writer.Put(ctx, h.bucket, name, data); err != nil {
		return respond(http.StatusInternalServerError, MsgUploadFailed), nil
	}
	return respond(http.StatusOK, MsgUploaded), nil
}

// respond encodes msg as a JSON string body.
func respond(status int, msg string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(msg)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
