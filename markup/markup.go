// Package markup converts JSON documents into XML element trees.
//
// The root element is always "data". Object keys become child elements in
// document order, array entries become repeated "item" children, and scalars
// become element text.
package markup

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
)

const (
	// RootTag names the document element.
	RootTag = "data"

	// ItemTag names each array entry.
	ItemTag = "item"
)

var (
	// ErrNothingToConvert is returned when the document is empty or falsy.
	ErrNothingToConvert = errors.New("imagepipe: no JSON data to convert")

	// ErrInvalidTag is returned by Marshal when an element name is not a valid XML name.
	ErrInvalidTag = errors.New("imagepipe: invalid element name")
)

// Node is one XML element. A node has either Text or Children.
type Node struct {
	Tag      string
	Text     string
	Children []*Node
}

// Convert builds the element tree for v. It reports false when v is falsy,
// leaving nothing to convert. A null member becomes an empty element.
func Convert(v Value) (*Node, bool) {
	if !v.Truthy() {
		return nil, false
	}
	return build(RootTag, v), true
}

func build(tag string, v Value) *Node {
	n := &Node{Tag: tag}
	switch v.Kind {
	case Object:
		for _, m := range v.Members {
			n.Children = append(n.Children, build(m.Key, m.Value))
		}
	case Array:
		for _, item := range v.Items {
			n.Children = append(n.Children, build(ItemTag, item))
		}
	case Null:
	default:
		n.Text = v.Text
	}
	return n
}

// Marshal serializes the tree as a UTF-8 document with an XML declaration.
func Marshal(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	if err := encode(enc, n); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("flush xml: %w", err)
	}
	return buf.Bytes(), nil
}

func encode(enc *xml.Encoder, n *Node) error {
	if !validName(n.Tag) {
		return fmt.Errorf("%w: %q", ErrInvalidTag, n.Tag)
	}

	start := xml.StartElement{Name: xml.Name{Local: n.Tag}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}
	for _, child := range n.Children {
		if err := encode(enc, child); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// validName accepts the ASCII subset of XML names plus any non-ASCII letters.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == ':':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= 0x80:
		case i > 0 && (r == '-' || r == '.' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

// FromJSON converts a JSON document straight to XML bytes.
func FromJSON(data []byte) ([]byte, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	n, ok := Convert(v)
	if !ok {
		return nil, ErrNothingToConvert
	}
	return Marshal(n)
}
