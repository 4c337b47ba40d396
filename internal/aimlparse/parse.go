// Package aimlparse turns AIML 1.0.1 source documents into Category values
// carrying a parsed aimlnode.Node template tree, per spec.md §6's input
// contract. It is the "Parser/Validator" component of spec.md §2 — an
// external collaborator from the matcher/interpreter's point of view, but
// specified here because its output shape (a Node tree, not raw text) is
// part of that contract.
package aimlparse

import (
	"io"
	"os"
	"strings"

	"github.com/cdwfs/aiml/internal/aimlnode"
	"github.com/cdwfs/aiml/internal/normalize"
)

// Category is the parsed (pattern, that, topic, template) quadruple from
// spec.md §3, with pattern/that/topic already reduced to matcher-ready
// normalized text (already-normalized storage per spec.md §4.1).
type Category struct {
	Pattern  string
	That     string
	Topic    string
	Template *aimlnode.Node
}

// Parser parses AIML documents. Strictness controls whether an unrecognized
// template element is a ParseError (true) or is transparently skipped,
// splicing its content into the parent (false) — spec.md §6's
// version-declared forward-compatibility switch.
type Parser struct {
	// ForceStrict, when non-nil, overrides the per-document version check
	// (used by tests). Normal operation leaves this nil and decides
	// strictness from each document's declared aiml version attribute.
	ForceStrict *bool
}

// NewParser returns a Parser that decides strictness per document.
func NewParser() *Parser { return &Parser{} }

// ParseFile parses a single AIML file.
func (p *Parser) ParseFile(path string) ([]Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.ParseReader(f)
}

// ParseReader parses a single AIML document from r.
func (p *Parser) ParseReader(r io.Reader) ([]Category, error) {
	root, err := decodeTree(r)
	if err != nil {
		return nil, err
	}

	aimlRoot := root.find("aiml")
	if aimlRoot == nil {
		// Tolerate a bare sequence of <category>/<topic> with no <aiml>
		// wrapper — some AIML corpora in the wild omit it.
		aimlRoot = root
	}

	strict := true
	if p.ForceStrict != nil {
		strict = *p.ForceStrict
	} else if v, ok := aimlRoot.Attrs["version"]; ok && v != "1.0.1" {
		strict = false
	}

	var cats []Category
	var walk func(n *xmlNode, topic string) error
	walk = func(n *xmlNode, topic string) error {
		for _, child := range n.Children {
			if child.isText() {
				continue
			}
			switch child.Name {
			case "topic":
				name := normalize.Normalize(child.Attrs["name"])
				if err := walk(child, name); err != nil {
					return err
				}
			case "category":
				cat, err := p.buildCategory(child, topic, strict)
				if err != nil {
					return err
				}
				cats = append(cats, *cat)
			}
		}
		return nil
	}
	if err := walk(aimlRoot, ""); err != nil {
		return nil, err
	}
	return cats, nil
}

func (p *Parser) buildCategory(cat *xmlNode, inheritedTopic string, strict bool) (*Category, error) {
	patternNode := cat.find("pattern")
	if patternNode == nil {
		return nil, errf(0, "category missing required <pattern>")
	}
	templateNode := cat.find("template")
	if templateNode == nil {
		return nil, errf(0, "category missing required <template>")
	}

	pattern := normalize.Normalize(patternNode.text())
	that := ""
	if thatNode := cat.find("that"); thatNode != nil {
		that = normalize.Normalize(thatNode.text())
	}
	topic := inheritedTopic
	if topicNode := cat.find("topic"); topicNode != nil {
		topic = normalize.Normalize(topicNode.text())
	}

	tmpl, err := p.convertTemplate(templateNode, strict)
	if err != nil {
		return nil, err
	}

	return &Category{
		Pattern:  strings.TrimSpace(pattern),
		That:     strings.TrimSpace(that),
		Topic:    strings.TrimSpace(topic),
		Template: tmpl,
	}, nil
}

// convertTemplate converts the <template> xmlNode into an aimlnode.Node
// tree rooted at TagTemplate.
func (p *Parser) convertTemplate(n *xmlNode, strict bool) (*aimlnode.Node, error) {
	children, err := p.convertChildren(n.Children, strict)
	if err != nil {
		return nil, err
	}
	return aimlnode.NewElement(aimlnode.TagTemplate, nil, children...), nil
}

func (p *Parser) convertChildren(children []*xmlNode, strict bool) ([]*aimlnode.Node, error) {
	var out []*aimlnode.Node
	for _, c := range children {
		nodes, err := p.convertOne(c, strict)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

// convertOne converts a single xmlNode into zero or more aimlnode.Node
// (zero or more because an unknown element in forward-compatible mode is
// spliced away, leaving only its converted children).
func (p *Parser) convertOne(n *xmlNode, strict bool) ([]*aimlnode.Node, error) {
	if n.isText() {
		if n.Text == "" {
			return nil, nil
		}
		return []*aimlnode.Node{aimlnode.NewText(n.Text)}, nil
	}
	tag, ok := aimlnode.Lookup(n.Name)
	if !ok {
		if strict {
			return nil, errf(0, "unknown template element <%s>", n.Name)
		}
		// Forward-compatible: skip the element, keep its content.
		return p.convertChildren(n.Children, strict)
	}
	children, err := p.convertChildren(n.Children, strict)
	if err != nil {
		return nil, err
	}
	attrs := n.Attrs
	return []*aimlnode.Node{aimlnode.NewElement(tag, attrs, children...)}, nil
}
