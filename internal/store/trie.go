// Package store implements the CategoryStore: a trie keyed on token class
// (literal word, '*', '_', and synthetic THAT/TOPIC separators) that selects
// the single best-matching template for an utterance under AIML's
// three-context priority rules, and extracts wildcard captures.
//
// The matching algorithm generalizes PatternMgr's two-level (pattern, that)
// recursive descent from the original Python implementation to three levels
// (pattern, that, topic): at each node, try the '_' wildcard (if enabled),
// then a literal word, then the '*' wildcard, trying the shortest
// consumption of the remaining tokens first. '_' defaults to disabled
// (spec.md §9 / §4.3: real-world AIML sets misbehave with '_' enabled).
package store

import (
	"strings"

	"github.com/cdwfs/aiml/internal/aimlnode"
	"github.com/cdwfs/aiml/internal/normalize"
)

// trieNode is one node of the trie. words holds literal-word edges; star
// and under hold the '*' and '_' wildcard edges; sep holds the THAT or
// TOPIC separator edge depending on which layer this node belongs to;
// template is the payload installed once all three contexts are consumed.
type trieNode struct {
	words    map[string]*trieNode
	star     *trieNode
	under    *trieNode
	sep      *trieNode
	template *aimlnode.Node
}

func newTrieNode() *trieNode {
	return &trieNode{words: make(map[string]*trieNode)}
}

func (n *trieNode) child(tok string) *trieNode {
	switch tok {
	case "*":
		if n.star == nil {
			n.star = newTrieNode()
		}
		return n.star
	case "_":
		if n.under == nil {
			n.under = newTrieNode()
		}
		return n.under
	default:
		if c, ok := n.words[tok]; ok {
			return c
		}
		c := newTrieNode()
		n.words[tok] = c
		return c
	}
}

func (n *trieNode) separator() *trieNode {
	if n.sep == nil {
		n.sep = newTrieNode()
	}
	return n.sep
}

// Store is the CategoryStore: the trie root plus the template counter.
// EnableUnderscore gates the high-priority '_' wildcard (spec.md §4.3's
// flag, here a run-time field set from config); it defaults to false.
type Store struct {
	root             *trieNode
	numTemplates     int
	EnableUnderscore bool
	botName          []string // current BOT_NAME substitution, as tokens
}

// New creates an empty CategoryStore.
func New() *Store {
	return &Store{root: newTrieNode()}
}

// NumTemplates returns the number of distinct inserted (pattern, that,
// topic) keys (spec.md §3's numTemplates invariant).
func (s *Store) NumTemplates() int { return s.numTemplates }

// SetBotName updates the value BOT_NAME resolves to at match time (spec.md
// §4.3's setBotName entry point). name is normalized the same way input is,
// so it compares against matcher tokens.
func (s *Store) SetBotName(name string) {
	s.botName = tokensOf(normalize.Normalize(name))
}

// tokensOf splits already-normalized, space-joined text into tokens.
func tokensOf(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

// Insert adds a category to the trie, indexed by pattern, that, topic (each
// already-normalized, space-joined text; empty that/topic default to "*").
// It increments NumTemplates only if no payload previously existed at this
// exact (pattern, that, topic) path.
func (s *Store) Insert(pattern, that, topic string, template *aimlnode.Node) {
	patternToks := tokensOf(pattern)
	thatToks := tokensOf(that)
	if len(thatToks) == 0 {
		thatToks = []string{"*"}
	}
	topicToks := tokensOf(topic)
	if len(topicToks) == 0 {
		topicToks = []string{"*"}
	}

	n := s.root
	for _, w := range patternToks {
		n = n.child(w)
	}
	n = n.separator() // THAT
	for _, w := range thatToks {
		n = n.child(w)
	}
	n = n.separator() // TOPIC
	for _, w := range topicToks {
		n = n.child(w)
	}

	if n.template == nil {
		s.numTemplates++
	}
	n.template = template
}

// MatchResult is the outcome of a successful Match: the template found and
// the wildcard captures for each of the three contexts, in encounter order.
// Captures hold words from the orig* slices given to MatchOriginal (the
// original-case words, per spec.md §4.3's wildcard extraction); when the
// result comes from Match, they are the normalized tokens themselves.
type MatchResult struct {
	Template *aimlnode.Node
	Pattern  [][]string
	That     [][]string
	Topic    [][]string
}

// Match finds the single best-matching template for the given
// already-tokenized (normalized) input, that-context, and topic-context,
// per spec.md §4.3's priority rules. BOT_NAME in a stored pattern/that is
// resolved against the store's current bot name before matching. Captures
// are reported as the matched normalized tokens themselves; callers that
// need the original-case words a wildcard captured (the <star> family) use
// MatchOriginal instead.
func (s *Store) Match(input, that, topic []string) (*MatchResult, bool) {
	return s.MatchOriginal(input, input, that, that, topic, topic)
}

// MatchOriginal matches exactly like Match, but records captures from the
// orig* slices (original-case words, one per normalized token at the same
// index) instead of from the normalized tokens. If an orig* slice's length
// doesn't match its normalized counterpart's, it falls back to the
// normalized tokens for that context, since the two have gone out of
// lockstep and a positional mapping between them is no longer meaningful.
func (s *Store) MatchOriginal(input, origInput, that, origThat, topic, origTopic []string) (*MatchResult, bool) {
	if len(origInput) != len(input) {
		origInput = input
	}
	if len(origThat) != len(that) {
		origThat = that
	}
	if len(origTopic) != len(topic) {
		origTopic = topic
	}
	res := &MatchResult{}
	node, ok := s.matchPattern(s.root, input, origInput, that, origThat, topic, origTopic, res)
	if !ok {
		return nil, false
	}
	res.Template = node.template
	return res, true
}

func (s *Store) matchPattern(n *trieNode, input, origInput, that, origThat, topic, origTopic []string, res *MatchResult) (*trieNode, bool) {
	if len(input) == 0 {
		if n.sep != nil {
			if tn, ok := s.matchThat(n.sep, that, origThat, topic, origTopic, res); ok {
				return tn, true
			}
		}
		// A trailing wildcard may also match zero tokens.
		if s.EnableUnderscore && n.under != nil {
			res.Pattern = append(res.Pattern, []string{})
			if tn, ok := s.matchPattern(n.under, nil, nil, that, origThat, topic, origTopic, res); ok {
				return tn, true
			}
			res.Pattern = res.Pattern[:len(res.Pattern)-1]
		}
		if n.star != nil {
			res.Pattern = append(res.Pattern, []string{})
			if tn, ok := s.matchPattern(n.star, nil, nil, that, origThat, topic, origTopic, res); ok {
				return tn, true
			}
			res.Pattern = res.Pattern[:len(res.Pattern)-1]
		}
		return nil, false
	}
	first := input[0]
	rest := input[1:]
	origRest := origInput[1:]

	if s.EnableUnderscore && n.under != nil {
		for j := 0; j <= len(rest); j++ {
			suf := rest[j:]
			origSuf := origRest[j:]
			saved := len(res.Pattern)
			res.Pattern = append(res.Pattern, append([]string{}, origInput[:1+j]...))
			if tn, ok := s.matchPattern(n.under, suf, origSuf, that, origThat, topic, origTopic, res); ok {
				return tn, true
			}
			res.Pattern = res.Pattern[:saved]
		}
	}
	if child, ok := n.words[first]; ok {
		if tn, ok2 := s.matchPattern(child, rest, origRest, that, origThat, topic, origTopic, res); ok2 {
			return tn, true
		}
	}
	if child, n2, orig2, ok := s.matchBotName(n, input, origInput); ok {
		if tn, ok2 := s.matchPattern(child, n2, orig2, that, origThat, topic, origTopic, res); ok2 {
			return tn, true
		}
	}
	if n.star != nil {
		for j := 0; j <= len(rest); j++ {
			suf := rest[j:]
			origSuf := origRest[j:]
			saved := len(res.Pattern)
			res.Pattern = append(res.Pattern, append([]string{}, origInput[:1+j]...))
			if tn, ok := s.matchPattern(n.star, suf, origSuf, that, origThat, topic, origTopic, res); ok {
				return tn, true
			}
			res.Pattern = res.Pattern[:saved]
		}
	}
	return nil, false
}

// matchBotName resolves a stored BOT_NAME edge dynamically: BOT_NAME may
// expand to several tokens (a multi-word bot name), so the trie's single
// BOT_NAME edge is matched by comparing the current bot name's token
// sequence directly against the front of the remaining input. origInput is
// sliced in lockstep with input so captures past a BOT_NAME edge still
// carry original-case words.
func (s *Store) matchBotName(n *trieNode, input, origInput []string) (*trieNode, []string, []string, bool) {
	child, ok := n.words["BOT_NAME"]
	if !ok || len(s.botName) == 0 || len(input) < len(s.botName) {
		return nil, nil, nil, false
	}
	for i, t := range s.botName {
		if input[i] != t {
			return nil, nil, nil, false
		}
	}
	return child, input[len(s.botName):], origInput[len(s.botName):], true
}

func (s *Store) matchThat(n *trieNode, that, origThat, topic, origTopic []string, res *MatchResult) (*trieNode, bool) {
	if len(that) == 0 {
		if n.sep != nil {
			if tn, ok := s.matchTopic(n.sep, topic, origTopic, res); ok {
				return tn, true
			}
		}
		if s.EnableUnderscore && n.under != nil {
			res.That = append(res.That, []string{})
			if tn, ok := s.matchThat(n.under, nil, nil, topic, origTopic, res); ok {
				return tn, true
			}
			res.That = res.That[:len(res.That)-1]
		}
		if n.star != nil {
			res.That = append(res.That, []string{})
			if tn, ok := s.matchThat(n.star, nil, nil, topic, origTopic, res); ok {
				return tn, true
			}
			res.That = res.That[:len(res.That)-1]
		}
		return nil, false
	}
	first := that[0]
	rest := that[1:]
	origRest := origThat[1:]

	if s.EnableUnderscore && n.under != nil {
		for j := 0; j <= len(rest); j++ {
			suf := rest[j:]
			origSuf := origRest[j:]
			saved := len(res.That)
			res.That = append(res.That, append([]string{}, origThat[:1+j]...))
			if tn, ok := s.matchThat(n.under, suf, origSuf, topic, origTopic, res); ok {
				return tn, true
			}
			res.That = res.That[:saved]
		}
	}
	if child, ok := n.words[first]; ok {
		if tn, ok2 := s.matchThat(child, rest, origRest, topic, origTopic, res); ok2 {
			return tn, true
		}
	}
	if child, rest2, orig2, ok := s.matchBotName(n, that, origThat); ok {
		if tn, ok2 := s.matchThat(child, rest2, orig2, topic, origTopic, res); ok2 {
			return tn, true
		}
	}
	if n.star != nil {
		for j := 0; j <= len(rest); j++ {
			suf := rest[j:]
			origSuf := origRest[j:]
			saved := len(res.That)
			res.That = append(res.That, append([]string{}, origThat[:1+j]...))
			if tn, ok := s.matchThat(n.star, suf, origSuf, topic, origTopic, res); ok {
				return tn, true
			}
			res.That = res.That[:saved]
		}
	}
	return nil, false
}

func (s *Store) matchTopic(n *trieNode, topic, origTopic []string, res *MatchResult) (*trieNode, bool) {
	if len(topic) == 0 {
		if n.template != nil {
			return n, true
		}
		if s.EnableUnderscore && n.under != nil {
			res.Topic = append(res.Topic, []string{})
			if tn, ok := s.matchTopic(n.under, nil, nil, res); ok {
				return tn, true
			}
			res.Topic = res.Topic[:len(res.Topic)-1]
		}
		if n.star != nil {
			res.Topic = append(res.Topic, []string{})
			if tn, ok := s.matchTopic(n.star, nil, nil, res); ok {
				return tn, true
			}
			res.Topic = res.Topic[:len(res.Topic)-1]
		}
		return nil, false
	}
	first := topic[0]
	rest := topic[1:]
	origRest := origTopic[1:]

	if s.EnableUnderscore && n.under != nil {
		for j := 0; j <= len(rest); j++ {
			suf := rest[j:]
			origSuf := origRest[j:]
			saved := len(res.Topic)
			res.Topic = append(res.Topic, append([]string{}, origTopic[:1+j]...))
			if tn, ok := s.matchTopic(n.under, suf, origSuf, res); ok {
				return tn, true
			}
			res.Topic = res.Topic[:saved]
		}
	}
	if child, ok := n.words[first]; ok {
		if tn, ok2 := s.matchTopic(child, rest, origRest, res); ok2 {
			return tn, true
		}
	}
	if n.star != nil {
		for j := 0; j <= len(rest); j++ {
			suf := rest[j:]
			origSuf := origRest[j:]
			saved := len(res.Topic)
			res.Topic = append(res.Topic, append([]string{}, origTopic[:1+j]...))
			if tn, ok := s.matchTopic(n.star, suf, origSuf, res); ok {
				return tn, true
			}
			res.Topic = res.Topic[:saved]
		}
	}
	return nil, false
}
