// Package xmlnode converts the XML documents returned by an eZone controller into a generic tree.
//
// The controller's documents have no schema: a tag may appear once or several times under the same parent,
// and an element may carry text or children. Parse reduces every element to one of three shapes:
//
//   - Leaf: an element without child elements and with non-empty (trimmed) text
//   - *Map: an element with child elements (or an empty element), keyed by child tag name
//   - List: the value stored in a Map when a child tag occurs more than once under the same parent
//
// A tag that occurs once is stored as a scalar child. Its second occurrence promotes the value to a
// two-element List and later occurrences are appended, in document order.
package xmlnode

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node is a parsed XML element. It is implemented by Leaf, *Map and List only.
type Node interface {
	node()
}

// Leaf is the trimmed text of an element without child elements.
type Leaf string

func (Leaf) node() {}

// List holds the values of a tag that occurred more than once under the same parent.
type List []Node

func (List) node() {}

// Map holds the children of an element, keyed by tag name, in order of first occurrence.
type Map struct {
	keys   []string
	values map[string]Node
}

func (*Map) node() {}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]Node)}
}

// Add records a child element. Repeated tags are promoted to a List.
func (m *Map) Add(tag string, child Node) {
	current, ok := m.values[tag]
	if !ok {
		m.keys = append(m.keys, tag)
		m.values[tag] = child
		return
	}
	if l, isList := current.(List); isList {
		m.values[tag] = append(l, child)
		return
	}
	m.values[tag] = List{current, child}
}

// Get returns the child stored under tag.
func (m *Map) Get(tag string) (Node, bool) {
	if m == nil {
		return nil, false
	}
	n, ok := m.values[tag]
	return n, ok
}

// Keys returns the tags of the Map, in order of first occurrence.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of distinct tags.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// MarshalJSON encodes the Map as a JSON object, preserving tag order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the Map as a YAML mapping, preserving tag order.
func (m *Map) MarshalYAML() (any, error) {
	out := yaml.Node{Kind: yaml.MappingNode}
	for _, key := range m.Keys() {
		var value yaml.Node
		if err := value.Encode(m.values[key]); err != nil {
			return nil, err
		}
		out.Content = append(out.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &value)
	}
	return &out, nil
}

// Lookup follows path through nested Maps. It does not descend into a List: a repeated tag is never
// silently treated as a single value.
func Lookup(n Node, path ...string) (Node, bool) {
	for _, tag := range path {
		m, ok := n.(*Map)
		if !ok {
			return nil, false
		}
		if n, ok = m.Get(tag); !ok {
			return nil, false
		}
	}
	return n, n != nil
}

// Text returns the Leaf found at path.
func Text(n Node, path ...string) (string, bool) {
	found, ok := Lookup(n, path...)
	if !ok {
		return "", false
	}
	leaf, ok := found.(Leaf)
	return string(leaf), ok
}

// MapAt returns the Map found at path. An empty path returns n itself, if it is a Map.
func MapAt(n Node, path ...string) (*Map, bool) {
	found, ok := Lookup(n, path...)
	if !ok {
		return nil, false
	}
	m, ok := found.(*Map)
	return m, ok
}

// String renders a Node for logging.
func String(n Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case Leaf:
		b.WriteString(string(v))
	case List:
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteByte(' ')
			}
			write(b, item)
		}
		b.WriteByte(']')
	case *Map:
		b.WriteByte('{')
		for i, key := range v.Keys() {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(key)
			b.WriteByte(':')
			child, _ := v.Get(key)
			write(b, child)
		}
		b.WriteByte('}')
	}
}
