package store

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// EncodeKey renders a continuation key as JSON in tagged wire form.
// A nil key encodes as JSON null.
func EncodeKey(key Key) ([]byte, error) {
	if len(key) == 0 {
		return []byte("null"), nil
	}
	wire := make(map[string]events.DynamoDBAttributeValue, len(key))
	for k, v := range key {
		ev, err := toEventAttr(v)
		if err != nil {
			return nil, fmt.Errorf("%w: attribute %q: %w", ErrInvalidKey, k, err)
		}
		wire[k] = ev
	}
	return json.Marshal(wire)
}

// DecodeKey parses a continuation key from its JSON wire form.
// Empty input and JSON null decode to a nil key.
func DecodeKey(data []byte) (Key, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var wire map[string]events.DynamoDBAttributeValue
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if len(wire) == 0 {
		return nil, nil
	}
	return ConvertEventKey(wire), nil
}

// ConvertEventKey converts an attribute map from a Lambda event to a Key.
func ConvertEventKey(image map[string]events.DynamoDBAttributeValue) Key {
	result := make(Key, len(image))
	for k, v := range image {
		if av := fromEventAttr(v); av != nil {
			result[k] = av
		}
	}
	return result
}

func fromEventAttr(v events.DynamoDBAttributeValue) types.AttributeValue {
	switch v.DataType() {
	case events.DataTypeString:
		return &types.AttributeValueMemberS{Value: v.String()}
	case events.DataTypeNumber:
		return &types.AttributeValueMemberN{Value: v.Number()}
	case events.DataTypeBinary:
		return &types.AttributeValueMemberB{Value: v.Binary()}
	case events.DataTypeBoolean:
		return &types.AttributeValueMemberBOOL{Value: v.Boolean()}
	case events.DataTypeNull:
		return &types.AttributeValueMemberNULL{Value: true}
	case events.DataTypeStringSet:
		return &types.AttributeValueMemberSS{Value: v.StringSet()}
	case events.DataTypeNumberSet:
		return &types.AttributeValueMemberNS{Value: v.NumberSet()}
	case events.DataTypeBinarySet:
		return &types.AttributeValueMemberBS{Value: v.BinarySet()}
	case events.DataTypeList:
		list := make([]types.AttributeValue, 0, len(v.List()))
		for _, e := range v.List() {
			if av := fromEventAttr(e); av != nil {
				list = append(list, av)
			}
		}
		return &types.AttributeValueMemberL{Value: list}
	case events.DataTypeMap:
		return &types.AttributeValueMemberM{Value: ConvertEventKey(v.Map())}
	}
	return nil
}

func toEventAttr(v types.AttributeValue) (events.DynamoDBAttributeValue, error) {
	switch tv := v.(type) {
	case *types.AttributeValueMemberS:
		return events.NewStringAttribute(tv.Value), nil
	case *types.AttributeValueMemberN:
		return events.NewNumberAttribute(tv.Value), nil
	case *types.AttributeValueMemberB:
		return events.NewBinaryAttribute(tv.Value), nil
	case *types.AttributeValueMemberBOOL:
		return events.NewBooleanAttribute(tv.Value), nil
	case *types.AttributeValueMemberNULL:
		return events.NewNullAttribute(), nil
	case *types.AttributeValueMemberSS:
		return events.NewStringSetAttribute(tv.Value), nil
	case *types.AttributeValueMemberNS:
		return events.NewNumberSetAttribute(tv.Value), nil
	case *types.AttributeValueMemberBS:
		return events.NewBinarySetAttribute(tv.Value), nil
	case *types.AttributeValueMemberL:
		list := make([]events.DynamoDBAttributeValue, 0, len(tv.Value))
		for _, e := range tv.Value {
			ev, err := toEventAttr(e)
			if err != nil {
				return events.DynamoDBAttributeValue{}, err
			}
			list = append(list, ev)
		}
		return events.NewListAttribute(list), nil
	case *types.AttributeValueMemberM:
		m := make(map[string]events.DynamoDBAttributeValue, len(tv.Value))
		for k, e := range tv.Value {
			ev, err := toEventAttr(e)
			if err != nil {
				return events.DynamoDBAttributeValue{}, err
			}
			m[k] = ev
		}
		return events.NewMapAttribute(m), nil
	}
	return events.DynamoDBAttributeValue{}, fmt.Errorf("unsupported attribute type %T", v)
}
