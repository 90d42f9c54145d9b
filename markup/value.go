package markup

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by Parse for input that is not a JSON document.
var ErrInvalidJSON = errors.New("imagepipe: invalid JSON document")

// Kind identifies the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Member is one key of an object, in document order.
type Member struct {
	Key   string
	Value Value
}

// Value is a parsed JSON value. Scalars keep their literal text so numbers
// render exactly as they were written.
type Value struct {
	Kind    Kind
	Text    string
	Items   []Value
	Members []Member
}

// Parse decodes a JSON document, keeping object keys in the order they appear.
func Parse(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.True, gjson.False:
		return Value{Kind: Bool, Text: r.Raw}
	case gjson.Number:
		return Value{Kind: Number, Text: r.Raw}
	case gjson.String:
		return Value{Kind: String, Text: r.Str}
	case gjson.JSON:
		if r.IsArray() {
			v := Value{Kind: Array, Items: []Value{}}
			r.ForEach(func(_, item gjson.Result) bool {
				v.Items = append(v.Items, fromResult(item))
				return true
			})
			return v
		}
		v := Value{Kind: Object, Members: []Member{}}
		r.ForEach(func(key, item gjson.Result) bool {
			v.Members = append(v.Members, Member{Key: key.Str, Value: fromResult(item)})
			return true
		})
		return v
	default:
		return Value{Kind: Null}
	}
}

// Truthy reports whether v carries anything worth converting: non-zero
// numbers, true, non-empty strings and non-empty containers.
func (v Value) Truthy() bool {
	switch v.Kind {
	case Bool:
		return v.Text == "true"
	case Number:
		return gjson.Parse(v.Text).Float() != 0
	case String:
		return v.Text != ""
	case Array:
		return len(v.Items) > 0
	case Object:
		return len(v.Members) > 0
	default:
		return false
	}
}
