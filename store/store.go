package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Client is the subset of the DynamoDB API used by Store.
type Client interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

var _ Client = (*dynamodb.Client)(nil)

// Store provides DynamoDB scans and writes for the pipeline tables.
type Store struct {
	client Client
	config Config
}

// New creates a new Store instance.
func New(client Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// Scan reads every item of a table, or the first input.Limit items, following
// continuation tokens. Items are converted to plain values before returning.
func (s *Store) Scan(ctx context.Context, input ScanInput) (*ScanResult, error) {
	scanInput := &dynamodb.ScanInput{
		TableName: aws.String(input.TableName),
	}
	if input.Limit > 0 {
		scanInput.Limit = aws.Int32(s.pageSize(input.Limit))
	}
	if len(input.StartKey) > 0 {
		scanInput.ExclusiveStartKey = input.StartKey
	}

	var raw []map[string]types.AttributeValue
	var lastKey map[string]types.AttributeValue

	paginator := dynamodb.NewScanPaginator(s.client, scanInput)
	for paginator.HasMorePages() {
		if input.Limit > 0 && len(raw) >= input.Limit {
			break
		}
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		raw = append(raw, page.Items...)
		lastKey = page.LastEvaluatedKey
	}

	if input.Limit > 0 && len(raw) > input.Limit {
		raw = raw[:input.Limit]
	}

	items, err := UnmarshalItems(raw)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{Items: items}
	if len(lastKey) > 0 {
		result.LastEvaluatedKey = lastKey
	}
	return result, nil
}

// Put writes a single item, replacing any item with the same key.
func (s *Store) Put(ctx context.Context, table string, item map[string]types.AttributeValue) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

// PutRecord marshals v with dynamodbav tags and writes it.
func (s *Store) PutRecord(ctx context.Context, table string, v any) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return s.Put(ctx, table, item)
}

// UnmarshalItem converts one item from tagged wire form to plain values.
// Numbers become float64, lists []any, maps map[string]any, and sets typed slices.
func UnmarshalItem(raw map[string]types.AttributeValue) (Item, error) {
	item := make(Item, len(raw))
	for k, v := range raw {
		var plain any
		if err := attributevalue.Unmarshal(v, &plain); err != nil {
			return nil, fmt.Errorf("unmarshal attribute %q: %w", k, err)
		}
		item[k] = plain
	}
	return item, nil
}

// UnmarshalItems converts a page of items, preserving order.
func UnmarshalItems(raw []map[string]types.AttributeValue) ([]Item, error) {
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		item, err := UnmarshalItem(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// pageSize caps the per-request page size at the store maximum.
func (s *Store) pageSize(limit int) int32 {
	if limit > int(s.config.MaxPageSize) {
		return s.config.MaxPageSize
	}
	return int32(limit)
}

// mapError classifies a DynamoDB error.
func mapError(err error) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", ErrTableNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrStore, err)
}
