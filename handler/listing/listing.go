// Package listing implements the API handler that pages through stored classifications.
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/imagepipe/store"
)

// Scanner reads a table page by page.
type Scanner interface {
	Scan(ctx context.Context, input store.ScanInput) (*store.ScanResult, error)
}

var _ Scanner = (*store.Store)(nil)

// Handler serves GET ?limit=&start_key= requests.
type Handler struct {
	scanner Scanner
	table   string
	logger  *slog.Logger
}

// NewHandler creates a Handler scanning table.
func NewHandler(scanner Scanner, table string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		scanner: scanner,
		table:   table,
		logger:  logger,
	}
}

type listBody struct {
	Items            []store.Item    `json:"items"`
	LastEvaluatedKey json.RawMessage `json:"last_evaluated_key"`
}

type errorBody struct {
	Error string `json:"error"`
}

// HandleRequest scans the table and returns the items with the continuation token.
func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := req.QueryStringParameters

	startKey, err := store.DecodeKey([]byte(params["start_key"]))
	if err != nil {
		h.logger.Warn("invalid start key", "start_key", params["start_key"], "error", err)
		return respond(http.StatusBadRequest, errorBody{Error: "Invalid start_key"}), nil
	}

	result, err := h.scanner.Scan(ctx, store.ScanInput{
		TableName: h.table,
		Limit:     ParseLimit(params["limit"]),
		StartKey:  startKey,
	})
	switch {
	case errors.Is(err, store.ErrTableNotFound):
		h.logger.Error("table not found", "table", h.table, "error", err)
		return respond(http.StatusNotFound, errorBody{Error: "DynamoDB table not found"}), nil
	case errors.Is(err, store.ErrStore):
		h.logger.Error("DynamoDB error", "table", h.table, "error", err)
		return respond(http.StatusInternalServerError, errorBody{Error: "Failed to retrieve items from DynamoDB"}), nil
	case err != nil:
		h.logger.Error("unexpected error", "error", err)
		return respond(http.StatusInternalServerError, errorBody{Error: "An unexpected error occurred"}), nil
	}

	key, err := store.EncodeKey(result.LastEvaluatedKey)
	if err != nil {
		h.logger.Error("unexpected error", "error", err)
		return respond(http.StatusInternalServerError, errorBody{Error: "An unexpected error occurred"}), nil
	}

	h.logger.Info("listed items", "table", h.table, "count", len(result.Items), "more", result.LastEvaluatedKey != nil)
	return respond(http.StatusOK, listBody{Items: result.Items, LastEvaluatedKey: key}), nil
}

// ParseLimit returns the page limit for s, or 0 (no limit) unless s is a
// positive decimal made only of digits.
func ParseLimit(s string) int {
	if s == "" {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func respond(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"An unexpected error occurred"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
