package interp

import (
	"testing"

	"github.com/cdwfs/aiml/internal/aimlnode"
	"github.com/cdwfs/aiml/internal/session"
	"github.com/cdwfs/aiml/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*Evaluator, *store.Store) {
	t.Helper()
	st := store.New()
	sessions := session.NewMemStore()
	bot := NewBotPredicates(func(name string) { st.SetBotName(name) })
	ev := New(st, sessions, bot, nil)
	return ev, st
}

func text(s string) *aimlnode.Node { return aimlnode.NewText(s) }

func el(tag aimlnode.Tag, attrs map[string]string, children ...*aimlnode.Node) *aimlnode.Node {
	return aimlnode.NewElement(tag, attrs, children...)
}

func TestScenarioHello(t *testing.T) {
	ev, st := newFixture(t)
	st.Insert("HELLO", "", "", el(aimlnode.TagTemplate, nil, text("Hi")))

	got := ev.RespondOne("s1", "Hello")
	assert.Equal(t, "Hi", got)
}

func TestScenarioStarCapture(t *testing.T) {
	ev, st := newFixture(t)
	st.Insert("MY NAME IS *", "", "", el(aimlnode.TagTemplate, nil,
		text("Nice to meet you, "), el(aimlnode.TagStar, nil)))

	got := ev.RespondOne("s1", "My name is Alice")
	assert.Equal(t, "Nice to meet you, Alice", got)
}

func TestScenarioSetGet(t *testing.T) {
	ev, st := newFixture(t)
	st.Insert("I LIKE *", "", "", el(aimlnode.TagTemplate, nil,
		el(aimlnode.TagSet, map[string]string{"name": "fav"}, el(aimlnode.TagStar, nil))))
	st.Insert("WHAT DO I LIKE", "", "", el(aimlnode.TagTemplate, nil,
		text("You like "), el(aimlnode.TagGet, map[string]string{"name": "fav"})))

	require.Equal(t, "cheese", ev.RespondOne("s1", "I like cheese"))
	assert.Equal(t, "You like cheese", ev.RespondOne("s1", "What do I like?"))
}

func TestScenarioSrai(t *testing.T) {
	ev, st := newFixture(t)
	st.Insert("HI", "", "", el(aimlnode.TagTemplate, nil, text("Hello.")))
	st.Insert("HELLO", "", "", el(aimlnode.TagTemplate, nil, el(aimlnode.TagSrai, nil, text("HI"))))

	assert.Equal(t, "Hello.", ev.RespondOne("s1", "hello"))
}

func TestScenarioConditionByValue(t *testing.T) {
	ev, st := newFixture(t)
	st.Insert("TEST GENDER", "", "", el(aimlnode.TagTemplate, nil,
		el(aimlnode.TagCondition, map[string]string{"name": "g"},
			el(aimlnode.TagLi, map[string]string{"value": "m"}, text("Sir")),
			el(aimlnode.TagLi, map[string]string{"value": "f"}, text("Madam")),
			el(aimlnode.TagLi, nil, text("Friend")),
		)))

	ev.Sessions.SetPredicate("s1", "g", "m")
	assert.Equal(t, "Sir", ev.RespondOne("s1", "Test gender"))

	ev.Sessions.SetPredicate("s2", "g", "x")
	assert.Equal(t, "Friend", ev.RespondOne("s2", "Test gender"))
	_ = st
}

func TestScenarioRandomPicksALi(t *testing.T) {
	ev, st := newFixture(t)
	choices := map[string]bool{"one": true, "two": true, "three": true}
	st.Insert("PICK ONE", "", "", el(aimlnode.TagTemplate, nil,
		el(aimlnode.TagRandom, nil,
			el(aimlnode.TagLi, nil, text("one")),
			el(aimlnode.TagLi, nil, text("two")),
			el(aimlnode.TagLi, nil, text("three")),
		)))

	for i := 0; i < 20; i++ {
		got := ev.RespondOne("s1", "Pick one")
		assert.True(t, choices[got], "unexpected random choice %q", got)
	}
}

func TestThinkProducesNoOutputButHasSideEffects(t *testing.T) {
	ev, st := newFixture(t)
	st.Insert("REMEMBER *", "", "", el(aimlnode.TagTemplate, nil,
		el(aimlnode.TagThink, nil, el(aimlnode.TagSet, map[string]string{"name": "x"}, el(aimlnode.TagStar, nil)))))

	got := ev.RespondOne("s1", "Remember cheese")
	assert.Equal(t, "", got)
	assert.Equal(t, "cheese", ev.Sessions.GetPredicate("s1", "x"))
}

func TestThatTagReturnsPriorOutput(t *testing.T) {
	// RespondOne deliberately does not touch history (that's the Kernel's
	// job around the per-sentence loop); <that/> reads output history
	// directly, so exercise it by seeding history the way the Kernel would.
	ev, st := newFixture(t)
	st.Insert("WHAT DID YOU SAY", "", "", el(aimlnode.TagTemplate, nil, el(aimlnode.TagThat, nil)))

	ev.Sessions.AppendOutputHistory("s1", "Hi there")
	got := ev.RespondOne("s1", "What did you say")
	assert.Equal(t, "Hi there", got)
}
