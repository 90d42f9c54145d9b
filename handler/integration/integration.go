// Package integration implements the queue handler that forwards JSON
// notifications to a third-party endpoint as XML.
package integration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/imagepipe/markup"
	"github.com/jacentio/imagepipe/sender"
)

// Response messages.
const (
	MsgSuccess = "Success!"
	MsgNoData  = "Bad Request: No JSON data to convert."
)

// Sender delivers an XML document and returns the endpoint's status code.
type Sender interface {
	Send(ctx context.Context, body []byte) (int, error)
}

var _ Sender = (*sender.Sender)(nil)

// Response is the handler result.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Handler converts each queued JSON document and posts it.
type Handler struct {
	sender Sender
	logger *slog.Logger
}

// NewHandler creates an integration Handler.
func NewHandler(s Sender, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sender: s,
		logger: logger,
	}
}

// HandleSQS processes the batch in order and reports the outcome of the last
// message, or of the first one that failed. Failures are reported in the
// response, never as an error. An empty batch yields a nil response.
func (h *Handler) HandleSQS(ctx context.Context, event events.SQSEvent) (*Response, error) {
	var resp *Response
	for _, msg := range event.Records {
		resp = h.processMessage(ctx, msg)
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp, nil
		}
	}
	return resp, nil
}

func (h *Handler) processMessage(ctx context.Context, msg events.SQSMessage) *Response {
	body := msg.Body
	if body == "" {
		body = "{}"
	}

	doc, err := markup.FromJSON([]byte(body))
	if errors.Is(err, markup.ErrNothingToConvert) {
		h.logger.Warn("no JSON data to convert", "messageID", msg.MessageId)
		return &Response{StatusCode: http.StatusBadRequest, Message: MsgNoData}
	}
	if err != nil {
		return h.failure(msg, err)
	}

	status, err := h.sender.Send(ctx, doc)
	if err != nil {
		return h.failure(msg, err)
	}
	return &Response{StatusCode: status, Message: MsgSuccess}
}

func (h *Handler) failure(msg events.SQSMessage, err error) *Response {
	h.logger.Error("an error occurred", "messageID", msg.MessageId, "error", err)
	return &Response{
		StatusCode: http.StatusInternalServerError,
		Message:    fmt.Sprintf("An unexpected error occurred: %v", err),
	}
}
