package interp

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/cdwfs/aiml/internal/aimlnode"
)

// process dispatches on n.Tag, implementing spec.md §4.5's table.
func (e *Evaluator) process(n *aimlnode.Node, sessionID string) string {
	if n == nil {
		return ""
	}
	switch n.Tag {
	case aimlnode.TagText:
		return n.Text
	case aimlnode.TagTemplate:
		return e.processChildren(n.Children, sessionID)
	case aimlnode.TagSrai:
		newInput := strings.TrimSpace(e.processChildren(n.Children, sessionID))
		return e.RespondOne(sessionID, newInput)
	case aimlnode.TagSr:
		return e.RespondOne(sessionID, strings.TrimSpace(e.Star("star", sessionID, 1)))
	case aimlnode.TagStar:
		return e.Star("star", sessionID, attrIndex(n, 1))
	case aimlnode.TagThatStar:
		return e.Star("thatstar", sessionID, attrIndex(n, 1))
	case aimlnode.TagTopicStar:
		return e.Star("topicstar", sessionID, attrIndex(n, 1))
	case aimlnode.TagThat:
		return e.processThat(n, sessionID)
	case aimlnode.TagInput:
		return e.processInput(n, sessionID)
	case aimlnode.TagGet:
		name := n.Attr("name")
		if name == "" {
			e.debugf("<get> without name")
			return ""
		}
		return e.Sessions.GetPredicate(sessionID, name)
	case aimlnode.TagSet:
		name := n.Attr("name")
		if name == "" {
			e.debugf("<set> without name")
			return ""
		}
		val := e.processChildren(n.Children, sessionID)
		e.Sessions.SetPredicate(sessionID, name, val)
		return val
	case aimlnode.TagBot:
		return e.Bot.Get(n.Attr("name"))
	case aimlnode.TagID:
		return sessionID
	case aimlnode.TagSize:
		return strconv.Itoa(e.Store.NumTemplates())
	case aimlnode.TagVersion:
		return Version
	case aimlnode.TagDate:
		return botDate()
	case aimlnode.TagThink, aimlnode.TagGossip, aimlnode.TagJavascript:
		e.processChildren(n.Children, sessionID)
		return ""
	case aimlnode.TagLearn:
		filename := strings.TrimSpace(e.processChildren(n.Children, sessionID))
		if e.Learn != nil && filename != "" {
			if err := e.Learn(filename); err != nil {
				e.debugf("<learn> of %q failed: %v", filename, err)
			}
		}
		return ""
	case aimlnode.TagLowercase:
		return strings.ToLower(e.processChildren(n.Children, sessionID))
	case aimlnode.TagUppercase:
		return strings.ToUpper(e.processChildren(n.Children, sessionID))
	case aimlnode.TagFormal:
		return formalCase(e.processChildren(n.Children, sessionID))
	case aimlnode.TagSentence:
		return sentenceCase(e.processChildren(n.Children, sessionID))
	case aimlnode.TagGender:
		return e.sub("gender", e.processChildren(n.Children, sessionID))
	case aimlnode.TagPerson:
		return e.personLike("person", n, sessionID)
	case aimlnode.TagPerson2:
		return e.personLike("person2", n, sessionID)
	case aimlnode.TagSystem:
		cmd := e.processChildren(n.Children, sessionID)
		return runSystem(cmd, n.Attr("mode") == "async")
	case aimlnode.TagCondition:
		return e.processCondition(n, sessionID)
	case aimlnode.TagRandom:
		return e.processRandom(n, sessionID)
	case aimlnode.TagLi:
		return e.processChildren(n.Children, sessionID)
	default:
		return ""
	}
}

func (e *Evaluator) processChildren(children []*aimlnode.Node, sessionID string) string {
	var b strings.Builder
	for _, c := range children {
		b.WriteString(e.process(c, sessionID))
	}
	return b.String()
}

// personLike implements the shorthand where a childless <person/> or
// <person2/> means "run <star/> through the substituter" (spec.md §4.5).
func (e *Evaluator) personLike(table string, n *aimlnode.Node, sessionID string) string {
	if len(n.Children) == 0 {
		return e.sub(table, e.Star("star", sessionID, 1))
	}
	return e.sub(table, e.processChildren(n.Children, sessionID))
}

// attrIndex parses the "index" attribute, defaulting to def. For <that
// index="n,m"/> only n (the part before the comma) is honored, per spec.md
// §9's codified behavior.
func attrIndex(n *aimlnode.Node, def int) int {
	v := n.Attr("index")
	if v == "" {
		return def
	}
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	idx, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return idx
}

// processThat returns outputHistory[-index] (1 = most recent), "" if out of
// range.
func (e *Evaluator) processThat(n *aimlnode.Node, sessionID string) string {
	idx := attrIndex(n, 1)
	hist := e.Sessions.OutputHistory(sessionID)
	pos := len(hist) - idx
	if pos < 0 || pos >= len(hist) {
		e.debugf("No such index %d while processing <that> element.", idx)
		return ""
	}
	return hist[pos]
}

// processInput returns inputHistory[-index] (1 = most recent), "" if out of
// range.
func (e *Evaluator) processInput(n *aimlnode.Node, sessionID string) string {
	idx := attrIndex(n, 1)
	hist := e.Sessions.InputHistory(sessionID)
	pos := len(hist) - idx
	if pos < 0 || pos >= len(hist) {
		e.debugf("No such index %d while processing <input> element.", idx)
		return ""
	}
	return hist[pos]
}

// processCondition implements all three shapes from spec.md §4.5: a fixed
// name+value test, or a scan over <li> children keyed by value (outer name
// fixed) or by each li's own name (outer name absent).
func (e *Evaluator) processCondition(n *aimlnode.Node, sessionID string) string {
	name := n.Attr("name")
	value := n.Attr("value")
	if name != "" && value != "" {
		if e.Sessions.GetPredicate(sessionID, name) == value {
			return e.processChildren(n.Children, sessionID)
		}
		return ""
	}

	var defaultLi *aimlnode.Node
	for _, li := range n.Children {
		if li.Tag != aimlnode.TagLi {
			continue
		}
		liName := name
		if liName == "" {
			liName = li.Attr("name")
		}
		liValue, hasValue := li.Attrs["value"]
		if !hasValue {
			defaultLi = li
			continue
		}
		if e.Sessions.GetPredicate(sessionID, liName) == liValue {
			return e.processChildren(li.Children, sessionID)
		}
	}
	if defaultLi != nil {
		return e.processChildren(defaultLi.Children, sessionID)
	}
	return ""
}

// processRandom picks one <li> child uniformly at random and processes it;
// non-li children are ignored.
func (e *Evaluator) processRandom(n *aimlnode.Node, sessionID string) string {
	var lis []*aimlnode.Node
	for _, c := range n.Children {
		if c.Tag == aimlnode.TagLi {
			lis = append(lis, c)
		}
	}
	if len(lis) == 0 {
		return ""
	}
	pick := lis[rand.Intn(len(lis))]
	return e.processChildren(pick.Children, sessionID)
}

// formalCase title-cases every word.
func formalCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r[:1]) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}

// sentenceCase capitalizes only the first word.
func sentenceCase(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	r := []rune(words[0])
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	words[0] = string(r)
	return strings.Join(words, " ")
}
