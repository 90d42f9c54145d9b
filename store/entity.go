package store

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Key is a DynamoDB primary key in tagged wire form. As a continuation token it
// is opaque: callers pass it back unchanged to resume a scan.
type Key map[string]types.AttributeValue

// Item is a stored item converted to plain values.
type Item map[string]any

// ScanInput defines parameters for a table scan.
type ScanInput struct {
	// TableName is the DynamoDB table to scan.
	TableName string

	// Limit bounds the number of items returned (0 = every item).
	Limit int

	// StartKey resumes a previous scan (nil = from the beginning).
	StartKey Key
}

// ScanResult is the outcome of a completed scan.
type ScanResult struct {
	// Items holds the converted items, at most Limit of them when a limit was set.
	Items []Item `json:"items"`

	// LastEvaluatedKey is the continuation token of the final page, or nil when
	// the table was exhausted.
	LastEvaluatedKey Key `json:"-"`
}
