package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/cdwfs/aiml/internal/aimlnode"
)

// brainMagic identifies a gob-encoded brain file; brainVersion is bumped
// whenever the wire shape below changes incompatibly, so a mismatched
// reader fails loudly instead of decoding garbage (spec.md §4.3's
// persistence note).
var brainMagic = [4]byte{'A', 'M', 'L', 'B'}

const brainVersion = 1

// gobNode mirrors trieNode with exported fields, since encoding/gob only
// encodes exported fields. No schema-driven third-party codec fits a
// closed recursive variant type like this without code generation, so the
// stdlib's gob — already in the corpus's persistence vocabulary — is used
// directly rather than reached past.
type gobNode struct {
	Words    map[string]*gobNode
	Star     *gobNode
	Under    *gobNode
	Sep      *gobNode
	Template *aimlnode.Node
}

type gobBrain struct {
	Root             *gobNode
	NumTemplates     int
	EnableUnderscore bool
	BotName          []string
}

func toGobNode(n *trieNode) *gobNode {
	if n == nil {
		return nil
	}
	g := &gobNode{Template: n.template}
	if len(n.words) > 0 {
		g.Words = make(map[string]*gobNode, len(n.words))
		for tok, child := range n.words {
			g.Words[tok] = toGobNode(child)
		}
	}
	g.Star = toGobNode(n.star)
	g.Under = toGobNode(n.under)
	g.Sep = toGobNode(n.sep)
	return g
}

func fromGobNode(g *gobNode) *trieNode {
	if g == nil {
		return nil
	}
	n := newTrieNode()
	n.template = g.Template
	for tok, child := range g.Words {
		n.words[tok] = fromGobNode(child)
	}
	n.star = fromGobNode(g.Star)
	n.under = fromGobNode(g.Under)
	n.sep = fromGobNode(g.Sep)
	return n
}

// Save writes the entire trie, in gob form, behind a magic+version header.
func (s *Store) Save(w io.Writer) error {
	if _, err := w.Write(brainMagic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{brainVersion}); err != nil {
		return err
	}
	b := gobBrain{
		Root:             toGobNode(s.root),
		NumTemplates:     s.numTemplates,
		EnableUnderscore: s.EnableUnderscore,
		BotName:          s.botName,
	}
	return gob.NewEncoder(w).Encode(&b)
}

// Restore replaces the store's contents with a brain previously written by
// Save. It rejects files with the wrong magic or any format version other
// than brainVersion.
func (s *Store) Restore(r io.Reader) error {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("store: reading brain header: %w", err)
	}
	if !bytes.Equal(header[:4], brainMagic[:]) {
		return fmt.Errorf("store: not a brain file (bad magic)")
	}
	if header[4] != brainVersion {
		return fmt.Errorf("store: brain format version %d unsupported (want %d)", header[4], brainVersion)
	}
	var b gobBrain
	if err := gob.NewDecoder(r).Decode(&b); err != nil {
		return fmt.Errorf("store: decoding brain: %w", err)
	}
	root := fromGobNode(b.Root)
	if root == nil {
		root = newTrieNode()
	}
	s.root = root
	s.numTemplates = b.NumTemplates
	s.EnableUnderscore = b.EnableUnderscore
	s.botName = b.BotName
	return nil
}
