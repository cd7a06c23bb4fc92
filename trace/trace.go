// Package trace reads the traceability markers back out of emitted page
// modules.
//
// Every visible element the compiler emits carries data-ws-id and
// data-ws-component, plus data-ws-index where its position is ambiguous.
// The preview overlay uses them to map a rendered node to its instance;
// this package recovers the same mapping from the source text.
package trace

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/vcrobe/jsxgen/vdom"
)

// Marker attribute names.
const (
	IDAttribute        = "data-ws-id"
	ComponentAttribute = "data-ws-component"
	IndexAttribute     = "data-ws-index"
)

// Marker is the traceability data of one emitted element.
type Marker struct {
	InstanceID string
	Component  string
	// Index is the position within the ancestor, -1 when absent.
	Index int
	// Tag is the emitted element name.
	Tag string
}

// Parse builds the element tree of a TSX module. The returned root has an
// empty Tag; its children are the outermost elements of every component in
// the module.
//
// Only capitalized tags are elements: lowercase ones are TypeScript type
// arguments (useState<any>) or host line breaks (<br />). Attribute keys
// are lowercased.
func Parse(source string) (*vdom.VNode, error) {
	masked, exprs := mask(source)
	root := vdom.NewVNode("", nil, nil, "")
	stack := []*vdom.VNode{root}

	z := html.NewTokenizer(strings.NewReader(masked))
	for {
		tt := z.Next()
		top := stack[len(stack)-1]
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to tokenize module: %w", err)
			}
			return root, nil
		case html.TextToken:
			top.AppendContent(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name := tagName(string(z.Raw()))
			if !isElement(name) {
				continue
			}
			node := vdom.NewVNode(name, readAttributes(z, exprs), nil, "")
			top.AppendChild(node)
			if tt == html.StartTagToken {
				stack = append(stack, node)
			}
		case html.EndTagToken:
			name := tagName(string(z.Raw()))
			if !isElement(name) {
				continue
			}
			// pop up to the matching element; unmatched end tags are ignored
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == name {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// tagName extracts the tag name, original case, from a raw tag.
func tagName(raw string) string {
	raw = strings.TrimPrefix(raw, "<")
	raw = strings.TrimPrefix(raw, "/")
	raw = strings.TrimPrefix(raw, tagPrefix)
	end := strings.IndexFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '>'
	})
	if end < 0 {
		return raw
	}
	return raw[:end]
}

func isElement(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

func readAttributes(z *html.Tokenizer, exprs []string) map[string]string {
	attrs := make(map[string]string)
	_, hasAttr := z.TagName()
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		value := string(val)
		if expr, ok := unmask(value, exprs); ok {
			value = expr
		}
		attrs[string(key)] = value
	}
	return attrs
}

// Markers lists the marker of every traceable element under root in
// document order.
func Markers(root *vdom.VNode) []Marker {
	var markers []Marker
	root.Walk(func(n *vdom.VNode) bool {
		id, ok := n.Attr(IDAttribute)
		if !ok {
			return true
		}
		marker := Marker{InstanceID: id, Index: -1, Tag: n.Tag}
		marker.Component, _ = n.Attr(ComponentAttribute)
		if raw, ok := n.Attr(IndexAttribute); ok {
			if index, err := strconv.Atoi(raw); err == nil {
				marker.Index = index
			}
		}
		markers = append(markers, marker)
		return true
	})
	return markers
}

// Index groups markers by instance id. An instance inside a collection
// appears once in the source but renders once per item.
func Index(markers []Marker) map[string][]Marker {
	index := make(map[string][]Marker)
	for _, marker := range markers {
		index[marker.InstanceID] = append(index[marker.InstanceID], marker)
	}
	return index
}
