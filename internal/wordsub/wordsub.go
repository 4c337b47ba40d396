// Package wordsub implements AIML's word-boundary-preserving multi-word
// substituter, used by the normalizer's "normal" table and by the
// <gender>, <person>, and <person2> template tags. The substitution table
// itself is loaded from an INI file (see LoadINI), generalizing the
// teacher's hardcoded pronoun maps into data the bot author controls.
package wordsub

import (
	"regexp"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// Subber performs single-pass, word-boundary-anchored substitution over a
// fixed key/value table. Keys are matched longest-first so that multi-word
// keys bind before overlapping shorter ones.
type Subber struct {
	re   *regexp.Regexp
	vals map[string]string // uppercased key -> replacement, as loaded
	keys []string          // original-case keys, longest-first, for rebuild
}

// New builds a Subber from a key->value table. Keys are matched
// case-insensitively and word-boundary anchored.
func New(table map[string]string) *Subber {
	s := &Subber{vals: make(map[string]string, len(table))}
	keys := make([]string, 0, len(table))
	for k, v := range table {
		keys = append(keys, k)
		s.vals[strings.ToUpper(k)] = v
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	s.keys = keys
	s.re = buildAlternation(keys)
	return s
}

func buildAlternation(keys []string) *regexp.Regexp {
	if len(keys) == 0 {
		// Never matches anything.
		return regexp.MustCompile(`\A\z.`)
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = regexp.QuoteMeta(k)
	}
	pattern := `(?i)\b(` + strings.Join(parts, "|") + `)\b`
	return regexp.MustCompile(pattern)
}

// Sub applies the substitution table to text, single-pass and
// non-recursive: a replacement is never re-scanned for further matches. \b
// is a zero-width assertion, so adjacent matches are never consumed as part
// of a previous match's boundary.
func (s *Subber) Sub(text string) string {
	if s == nil || s.re == nil {
		return text
	}
	var out strings.Builder
	last := 0
	for _, loc := range s.re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		out.WriteString(text[last:start])
		matched := text[start:end]
		if repl, ok := s.vals[strings.ToUpper(matched)]; ok {
			out.WriteString(matchCase(matched, repl))
		} else {
			out.WriteString(matched)
		}
		last = end
	}
	out.WriteString(text[last:])
	return out.String()
}

// matchCase reproduces the replacement with the case of src's first
// character: fully-uppercase src yields an uppercased replacement, a
// titlecased src (only its first rune uppercase) yields a titlecased
// replacement, otherwise lowercase.
func matchCase(src, repl string) string {
	if src == "" {
		return repl
	}
	if strings.ToUpper(src) == src && strings.ToLower(src) != src {
		return strings.ToUpper(repl)
	}
	runes := []rune(src)
	firstUpper := runes[0] >= 'A' && runes[0] <= 'Z'
	restLower := strings.ToLower(string(runes[1:])) == string(runes[1:])
	if firstUpper && restLower {
		return title(repl)
	}
	return strings.ToLower(repl)
}

func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// LoadINI reads a substitution file in the format spec.md §6 describes: one
// section per substituter (gender, person, person2, normal are
// conventional), keys and values treated literally. It returns one Subber
// per section.
func LoadINI(path string) (map[string]*Subber, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Subber)
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		table := make(map[string]string)
		for _, key := range sec.Keys() {
			table[key.Name()] = key.Value()
		}
		out[sec.Name()] = New(table)
	}
	return out, nil
}
