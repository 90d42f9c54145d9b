// Package store provides the DynamoDB access used by the image pipeline handlers.
//
// The central operation is [Store.Scan], a paginated table scan that follows
// continuation tokens until the table is exhausted or a caller-supplied limit
// is reached, converting each item from the tagged wire encoding
// ({"S": "x"}, {"N": "1"}, ...) into plain Go values.
//
//	s := store.New(dynamodb.NewFromConfig(cfg), store.DefaultConfig())
//	res, err := s.Scan(ctx, store.ScanInput{TableName: "Classifications", Limit: 25})
//
// # Continuation keys
//
// A [Key] is passed back verbatim to resume a scan. [EncodeKey] and [DecodeKey]
// carry it across HTTP boundaries as JSON in the same tagged form DynamoDB uses:
//
//	{"image": {"S": "cat.png"}}
//
// # Errors
//
//   - [ErrTableNotFound] - the table does not exist
//   - [ErrStore] - any other store failure (wraps the SDK error)
//   - [ErrInvalidKey] - a continuation key could not be decoded
//
// Errors abort the scan; pages fetched before the failure are discarded.
package store
