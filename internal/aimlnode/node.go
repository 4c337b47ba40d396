// Package aimlnode defines the tagged-variant tree that AIML templates are
// parsed into once, and walked by internal/interp on every turn. It mirrors
// the duck-typed "[tag, attrs, ...children]" node shape of the source
// implementation (see spec.md §9) as a Go enum + struct.
package aimlnode

// Tag enumerates every recognized node shape: TagText for leaves, one
// constant per AIML template element from spec.md §4.5's dispatch table.
type Tag int

const (
	TagText Tag = iota
	TagTemplate
	TagSrai
	TagSr
	TagStar
	TagThatStar
	TagTopicStar
	TagThat
	TagInput
	TagGet
	TagSet
	TagBot
	TagID
	TagSize
	TagVersion
	TagDate
	TagThink
	TagGossip
	TagJavascript
	TagLearn
	TagLowercase
	TagUppercase
	TagFormal
	TagSentence
	TagGender
	TagPerson
	TagPerson2
	TagSystem
	TagCondition
	TagRandom
	TagLi
)

var tagNames = map[Tag]string{
	TagText:       "text",
	TagTemplate:   "template",
	TagSrai:       "srai",
	TagSr:         "sr",
	TagStar:       "star",
	TagThatStar:   "thatstar",
	TagTopicStar:  "topicstar",
	TagThat:       "that",
	TagInput:      "input",
	TagGet:        "get",
	TagSet:        "set",
	TagBot:        "bot",
	TagID:         "id",
	TagSize:       "size",
	TagVersion:    "version",
	TagDate:       "date",
	TagThink:      "think",
	TagGossip:     "gossip",
	TagJavascript: "javascript",
	TagLearn:      "learn",
	TagLowercase:  "lowercase",
	TagUppercase:  "uppercase",
	TagFormal:     "formal",
	TagSentence:   "sentence",
	TagGender:     "gender",
	TagPerson:     "person",
	TagPerson2:    "person2",
	TagSystem:     "system",
	TagCondition:  "condition",
	TagRandom:     "random",
	TagLi:         "li",
}

var namesToTag = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for t, n := range tagNames {
		m[n] = t
	}
	return m
}()

// String returns the AIML element name for the tag ("text" for TagText).
func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return "unknown"
}

// Lookup returns the Tag for an AIML element name, and whether it is
// recognized.
func Lookup(name string) (Tag, bool) {
	t, ok := namesToTag[name]
	return t, ok
}

// Node is either a text leaf (Tag == TagText, Text set, no Children) or an
// element (Tag != TagText, Attrs possibly set, Children possibly set).
type Node struct {
	Tag      Tag
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// NewText builds a text leaf.
func NewText(s string) *Node {
	return &Node{Tag: TagText, Text: s}
}

// NewElement builds an element node.
func NewElement(tag Tag, attrs map[string]string, children ...*Node) *Node {
	return &Node{Tag: tag, Attrs: attrs, Children: children}
}

// Attr returns the named attribute, or "" if absent.
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}
