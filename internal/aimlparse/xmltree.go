package aimlparse

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// xmlNode is a generic, order-preserving XML tree used as the intermediate
// form between the raw decoder and both the category extractor and the
// template-to-aimlnode converter. Building this once lets AIML's
// topic/category/pattern/that/template grammar and the template tag tree be
// walked with ordinary tree recursion instead of a hand-rolled streaming
// decoder re-run on every turn.
type xmlNode struct {
	Name     string
	Attrs    map[string]string
	Children []*xmlNode
	Text     string // only set when Name == ""
}

func (n *xmlNode) isText() bool { return n.Name == "" }

// decodeTree decodes r into a single root xmlNode wrapping all top-level
// content (so malformed-but-tolerable documents with multiple roots still
// parse). Uses encoding/xml — the conformant XML reader spec.md §1 treats
// as an external collaborator.
func decodeTree(r io.Reader) (*xmlNode, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	root := &xmlNode{Name: "#root"}
	stack := []*xmlNode{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("xml: %v", err), Offset: dec.InputOffset()}
		}
		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[a.Name.Local] = a.Value
			}
			child := &xmlNode{Name: t.Name.Local, Attrs: attrs}
			top.Children = append(top.Children, child)
			stack = append(stack, child)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if s := string(t); strings.TrimSpace(s) != "" || s != "" {
				top.Children = append(top.Children, &xmlNode{Text: s})
			}
		}
	}
	return root, nil
}

// find returns the first direct child element with the given name.
func (n *xmlNode) find(name string) *xmlNode {
	for _, c := range n.Children {
		if !c.isText() && c.Name == name {
			return c
		}
	}
	return nil
}

// findAll returns all direct child elements with the given name.
func (n *xmlNode) findAll(name string) []*xmlNode {
	var out []*xmlNode
	for _, c := range n.Children {
		if !c.isText() && c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// text concatenates the text content of a node that may contain <bot
// name="..."/> markers, substituting each for the literal token BOT_NAME
// (spec.md §4.3's BOT_NAME substitution is resolved at match time; the
// parser only needs to leave the marker in place).
func (n *xmlNode) text() string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.isText() {
			b.WriteString(c.Text)
			continue
		}
		if c.Name == "bot" {
			b.WriteString(" BOT_NAME ")
			continue
		}
		// Any other nested element inside a pattern/that/topic is flattened
		// to its text content (AIML 1.0.1 patterns are word-only).
		b.WriteString(c.text())
	}
	return b.String()
}
