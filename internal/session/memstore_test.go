package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemStorePredicatesPersist(t *testing.T) {
	s := NewMemStore()
	assert.Equal(t, "", s.GetPredicate("u1", "foo"))

	s.SetPredicate("u1", "foo", "bar")
	assert.Equal(t, "bar", s.GetPredicate("u1", "foo"))

	s.SetPredicate("u1", "foo", "baz")
	assert.Equal(t, "baz", s.GetPredicate("u1", "foo"))
}

func TestMemStoreTopicDefaultsToStar(t *testing.T) {
	s := NewMemStore()
	assert.Equal(t, DefaultTopic, s.Topic("u1"))

	s.SetTopic("u1", "JOKES")
	assert.Equal(t, "JOKES", s.Topic("u1"))
}

func TestMemStoreSessionsAreIndependent(t *testing.T) {
	s := NewMemStore()
	s.SetPredicate("alice", "color", "red")
	s.SetPredicate("bob", "color", "blue")

	assert.Equal(t, "red", s.GetPredicate("alice", "color"))
	assert.Equal(t, "blue", s.GetPredicate("bob", "color"))
}

func TestMemStoreInputStackLifecycle(t *testing.T) {
	s := NewMemStore()
	s.PushInput("u1", "HELLO")
	s.PushInput("u1", "HELLO THERE")
	assert.Equal(t, []string{"HELLO", "HELLO THERE"}, s.InputStack("u1"))

	s.PopInput("u1")
	assert.Equal(t, []string{"HELLO"}, s.InputStack("u1"))

	s.PopInput("u1")
	assert.Empty(t, s.InputStack("u1"))
}

func TestMemStoreHistoryBoundedAtTen(t *testing.T) {
	s := NewMemStore()
	for i := 0; i < 15; i++ {
		s.AppendInputHistory("u1", string(rune('A'+i)))
	}
	hist := s.InputHistory("u1")
	assert.Len(t, hist, HistoryLimit)
	assert.Equal(t, "F", hist[0]) // oldest 5 discarded
	assert.Equal(t, "O", hist[len(hist)-1])
}
