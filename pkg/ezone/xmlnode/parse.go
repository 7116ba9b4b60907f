package xmlnode

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MalformedResponseError is returned when a response cannot be parsed as an XML document.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return "invalid XML response: " + e.Err.Error()
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

var (
	errNoRootElement   = errors.New("no root element")
	errTrailingContent = errors.New("junk after document element")
)

type frame struct {
	tag      string
	children *Map
	text     strings.Builder
}

func (f *frame) node() Node {
	if f.children == nil {
		if text := strings.TrimSpace(f.text.String()); text != "" {
			return Leaf(text)
		}
		return NewMap()
	}
	return f.children
}

// Parse converts an XML document into a Node. The root element's own tag is dropped: the returned Node
// represents the root's content.
func Parse(raw string) (Node, error) {
	d := xml.NewDecoder(strings.NewReader(raw))
	d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	var (
		stack []*frame
		root  Node
	)

	for {
		token, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedResponseError{Err: err}
		}

		switch t := token.(type) {
		case xml.StartElement:
			if root != nil {
				return nil, &MalformedResponseError{Err: errTrailingContent}
			}
			if len(stack) > 0 {
				if parent := stack[len(stack)-1]; parent.children == nil {
					parent.children = NewMap()
				}
			}
			stack = append(stack, &frame{tag: t.Name.Local})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			} else if len(strings.TrimSpace(string(t))) > 0 {
				return nil, &MalformedResponseError{Err: fmt.Errorf("unexpected text %q outside of root element", strings.TrimSpace(string(t)))}
			}
		case xml.EndElement:
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = current.node()
				continue
			}
			stack[len(stack)-1].children.Add(current.tag, current.node())
		}
	}

	if root == nil {
		return nil, &MalformedResponseError{Err: errNoRootElement}
	}
	return root, nil
}
