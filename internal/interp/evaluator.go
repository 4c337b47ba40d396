// Package interp implements the TemplateInterpreter: a recursive
// process(node, sessionID) evaluator keyed on node tag, operating over the
// pre-parsed *aimlnode.Node tree (no re-parsing per turn). It also owns the
// inner match+process pipeline that both the Kernel's per-sentence loop
// and <srai>/<sr> recursion call into — see RespondOne.
package interp

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cdwfs/aiml/internal/normalize"
	"github.com/cdwfs/aiml/internal/session"
	"github.com/cdwfs/aiml/internal/store"
	"github.com/cdwfs/aiml/internal/wordsub"
)

// Version is the interpreter version string the <version/> tag reports.
const Version = "1.0.1"

// Evaluator holds everything process() needs to evaluate a template: the
// CategoryStore (for re-matching on <srai> and for <size>), the
// SessionStore, the bot predicate table, and the loaded WordSub tables.
type Evaluator struct {
	Store    *store.Store
	Sessions session.Store
	Bot      *BotPredicates
	Subbers  map[string]*wordsub.Subber // "normal", "gender", "person", "person2"

	// Debug gates the teacher's fmt.Fprintf(os.Stderr, ...) logging of
	// lookup misses and runtime tag errors (spec.md §7's verbose mode).
	Debug bool

	// Learn, when set, is invoked by the <learn> tag with the filename its
	// children evaluate to. The Kernel wires this to its own AIML loader
	// so this package doesn't need to depend on aimlparse for one tag.
	Learn func(filename string) error

	// OnLookupMiss, when set, is called once per sentence that matches no
	// category. The Kernel wires this to a metrics counter; this package
	// has no opinion on observability.
	OnLookupMiss func()
}

// New builds an Evaluator. subbers may be nil or missing any of the
// conventional section names; a missing subber is treated as the identity
// function.
func New(st *store.Store, sessions session.Store, bot *BotPredicates, subbers map[string]*wordsub.Subber) *Evaluator {
	if subbers == nil {
		subbers = make(map[string]*wordsub.Subber)
	}
	return &Evaluator{Store: st, Sessions: sessions, Bot: bot, Subbers: subbers}
}

func (e *Evaluator) debugf(format string, args ...interface{}) {
	if e.Debug {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func (e *Evaluator) sub(name, text string) string {
	if s := e.Subbers[name]; s != nil {
		return s.Sub(text)
	}
	return text
}

// RespondOne is spec.md §4.6's "_respond": match and process a single
// already-sentence-split utterance, without touching history. The
// top-level Kernel loop wraps this with history bookkeeping; <srai> calls
// it directly, which is exactly how it "does not touch history."
func (e *Evaluator) RespondOne(sessionID, input string) string {
	if input == "" {
		return ""
	}

	e.Sessions.PushInput(sessionID, input)
	defer e.Sessions.PopInput(sessionID)

	that := ""
	if hist := e.Sessions.OutputHistory(sessionID); len(hist) > 0 {
		that = hist[len(hist)-1]
	}
	topic := e.Sessions.Topic(sessionID)

	inputToks := normalize.Tokens(e.sub("normal", input))
	thatToks := normalize.Tokens(e.sub("normal", that))
	topicToks := normalize.Tokens(e.sub("normal", topic))

	res, ok := e.Store.Match(inputToks, thatToks, topicToks)
	if !ok {
		e.debugf("No match found for input: %s", input)
		if e.OnLookupMiss != nil {
			e.OnLookupMiss()
		}
		return ""
	}
	return trimAndCollapse(e.process(res.Template, sessionID))
}

// Star returns the first wildcard capture for the given context ("star",
// "thatstar", "topicstar"); an index above 1 logs a warning in debug mode
// and yields "". The capture is found by re-deriving the match from the
// session's current input-stack top, output history, and topic, just as
// the reference implementation's _process{Star,Thatstar,Topicstar} do
// rather than caching the original match result. The returned words are
// the original-case (un-normalized) words from that context, per spec.md
// §4.3's wildcard-extraction contract — not the uppercased tokens used to
// navigate the trie.
func (e *Evaluator) Star(which string, sessionID string, index int) string {
	if index > 1 {
		e.debugf("WARNING: index>1 has no meaning in <%s> tags", which)
		return ""
	}
	rawInput := ""
	if stack := e.Sessions.InputStack(sessionID); len(stack) > 0 {
		rawInput = stack[len(stack)-1]
	}
	if rawInput == "" {
		return ""
	}
	input := e.sub("normal", rawInput)

	rawThat := ""
	if hist := e.Sessions.OutputHistory(sessionID); len(hist) > 0 {
		rawThat = hist[len(hist)-1]
	}
	that := e.sub("normal", rawThat)

	rawTopic := e.Sessions.Topic(sessionID)
	topic := e.sub("normal", rawTopic)

	res, ok := e.Store.MatchOriginal(
		normalize.Tokens(input), strings.Fields(rawInput),
		normalize.Tokens(that), strings.Fields(rawThat),
		normalize.Tokens(topic), strings.Fields(rawTopic),
	)
	if !ok {
		return ""
	}
	var captures [][]string
	switch which {
	case "star":
		captures = res.Pattern
	case "thatstar":
		captures = res.That
	case "topicstar":
		captures = res.Topic
	}
	if len(captures) == 0 {
		return ""
	}
	return joinTokens(captures[0])
}

func joinTokens(toks []string) string {
	out := ""
	for i, t := range toks {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}

func trimAndCollapse(s string) string {
	return normalize.CollapseSpace(s)
}

// botDate returns the implementation-chosen human date/time the <date/>
// tag reports.
func botDate() string {
	return time.Now().Format("Mon Jan 2 15:04:05 2006")
}
