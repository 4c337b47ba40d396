package session

import (
	"bytes"
	"encoding/gob"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// listPrefix marks a key's value as a gob-encoded []string rather than a
// raw predicate string, so history and stack entries can share the same
// bucket and key-value shape as ordinary predicates.
const listPrefix = "\x00list\x00"

// BoltStore is the persistentSessions backend (spec.md §4.4 / §9): a single
// embedded key-value database with one bucket per session, rather than one
// file per session, to avoid file-handle pressure as session count grows.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (creating if necessary) a bbolt database at path for
// use as a persistent SessionStore.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("session: opening bolt store: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (b *BoltStore) bucket(tx *bolt.Tx, sessionID string) (*bolt.Bucket, error) {
	return tx.CreateBucketIfNotExists([]byte(sessionID))
}

func encodeList(list []string) []byte {
	var buf bytes.Buffer
	buf.WriteString(listPrefix)
	_ = gob.NewEncoder(&buf).Encode(list)
	return buf.Bytes()
}

func decodeList(raw []byte) ([]string, bool) {
	if len(raw) < len(listPrefix) || string(raw[:len(listPrefix)]) != listPrefix {
		return nil, false
	}
	var list []string
	if err := gob.NewDecoder(bytes.NewReader(raw[len(listPrefix):])).Decode(&list); err != nil {
		return nil, false
	}
	return list, true
}

func (b *BoltStore) getString(sessionID, key string) string {
	var out string
	_ = b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(sessionID))
		if bkt == nil {
			return nil
		}
		out = string(bkt.Get([]byte(key)))
		return nil
	})
	return out
}

func (b *BoltStore) setString(sessionID, key, value string) {
	_ = b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := b.bucket(tx, sessionID)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(key), []byte(value))
	})
}

func (b *BoltStore) getList(sessionID, key string) []string {
	var out []string
	_ = b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(sessionID))
		if bkt == nil {
			return nil
		}
		if list, ok := decodeList(bkt.Get([]byte(key))); ok {
			out = list
		}
		return nil
	})
	return out
}

func (b *BoltStore) setList(sessionID, key string, list []string) {
	_ = b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := b.bucket(tx, sessionID)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(key), encodeList(list))
	})
}

func (b *BoltStore) GetPredicate(sessionID, name string) string {
	return b.getString(sessionID, name)
}

func (b *BoltStore) SetPredicate(sessionID, name, value string) {
	b.setString(sessionID, name, value)
}

func (b *BoltStore) PushInput(sessionID, input string) {
	b.setList(sessionID, PredInputStack, append(b.getList(sessionID, PredInputStack), input))
}

func (b *BoltStore) PopInput(sessionID string) {
	stack := b.getList(sessionID, PredInputStack)
	if n := len(stack); n > 0 {
		b.setList(sessionID, PredInputStack, stack[:n-1])
	}
}

func (b *BoltStore) InputStack(sessionID string) []string {
	return b.getList(sessionID, PredInputStack)
}

func (b *BoltStore) AppendInputHistory(sessionID, input string) {
	b.setList(sessionID, PredInputHistory, appendBounded(b.getList(sessionID, PredInputHistory), input))
}

func (b *BoltStore) AppendOutputHistory(sessionID, output string) {
	b.setList(sessionID, PredOutputHistory, appendBounded(b.getList(sessionID, PredOutputHistory), output))
}

func (b *BoltStore) InputHistory(sessionID string) []string {
	return b.getList(sessionID, PredInputHistory)
}

func (b *BoltStore) OutputHistory(sessionID string) []string {
	return b.getList(sessionID, PredOutputHistory)
}

func (b *BoltStore) Topic(sessionID string) string {
	if t := b.getString(sessionID, PredTopic); t != "" {
		return t
	}
	return DefaultTopic
}

func (b *BoltStore) SetTopic(sessionID, topic string) {
	b.setString(sessionID, PredTopic, topic)
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}
