package kernel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKernel(t *testing.T) *Kernel {
	t.Helper()
	k := New(Config{}, nil, prometheus.NewRegistry())
	t.Cleanup(func() { k.Close() })
	return k
}

func writeAIML(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.aiml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestScenarioHello(t *testing.T) {
	k := newTestKernel(t)
	path := writeAIML(t, `<aiml version="1.0.1">
  <category><pattern>HELLO</pattern><template>Hi</template></category>
</aiml>`)
	require.NoError(t, k.Learn(path))

	assert.Equal(t, "Hi", k.Respond("s1", "Hello."))
}

func TestScenarioStarCapture(t *testing.T) {
	k := newTestKernel(t)
	path := writeAIML(t, `<aiml version="1.0.1">
  <category><pattern>MY NAME IS *</pattern><template>Nice to meet you, <star/></template></category>
</aiml>`)
	require.NoError(t, k.Learn(path))

	assert.Equal(t, "Nice to meet you, Alice", k.Respond("s1", "My name is Alice"))
}

func TestScenarioSetGetAcrossTurns(t *testing.T) {
	k := newTestKernel(t)
	path := writeAIML(t, `<aiml version="1.0.1">
  <category><pattern>I LIKE *</pattern><template><set name="fav"><star/></set></template></category>
  <category><pattern>WHAT DO I LIKE</pattern><template>You like <get name="fav"/></template></category>
</aiml>`)
	require.NoError(t, k.Learn(path))

	assert.Equal(t, "cheese", k.Respond("s1", "I like cheese"))
	assert.Equal(t, "You like cheese", k.Respond("s1", "What do I like?"))
}

func TestScenarioSrai(t *testing.T) {
	k := newTestKernel(t)
	path := writeAIML(t, `<aiml version="1.0.1">
  <category><pattern>HI</pattern><template>Hello.</template></category>
  <category><pattern>HELLO</pattern><template><srai>HI</srai></template></category>
</aiml>`)
	require.NoError(t, k.Learn(path))

	assert.Equal(t, "Hello.", k.Respond("s1", "hello"))
}

func TestScenarioConditionVariant2(t *testing.T) {
	k := newTestKernel(t)
	path := writeAIML(t, `<aiml version="1.0.1">
  <category><pattern>TEST GENDER</pattern><template><condition name="g"><li value="m">Sir</li><li value="f">Madam</li><li>Friend</li></condition></template></category>
</aiml>`)
	require.NoError(t, k.Learn(path))

	k.Respond("s1", "set up") // ensure session exists
	k.eval.Sessions.SetPredicate("s1", "g", "m")
	assert.Equal(t, "Sir", k.Respond("s1", "Test gender"))

	k.eval.Sessions.SetPredicate("s2", "g", "x")
	assert.Equal(t, "Friend", k.Respond("s2", "Test gender"))
}

func TestScenarioRandom(t *testing.T) {
	k := newTestKernel(t)
	path := writeAIML(t, `<aiml version="1.0.1">
  <category><pattern>PICK ONE</pattern><template><random><li>one</li><li>two</li><li>three</li></random></template></category>
</aiml>`)
	require.NoError(t, k.Learn(path))

	choices := map[string]bool{"one": true, "two": true, "three": true}
	for i := 0; i < 20; i++ {
		got := k.Respond("s1", "Pick one")
		assert.True(t, choices[got])
	}
}

func TestInputStackEmptyAfterRespond(t *testing.T) {
	k := newTestKernel(t)
	path := writeAIML(t, `<aiml version="1.0.1">
  <category><pattern>HELLO</pattern><template>Hi</template></category>
</aiml>`)
	require.NoError(t, k.Learn(path))

	k.Respond("s1", "Hello")
	assert.Empty(t, k.sessions.InputStack("s1"))
}

func TestNumTemplatesCountsDistinctKeys(t *testing.T) {
	k := newTestKernel(t)
	path := writeAIML(t, `<aiml version="1.0.1">
  <category><pattern>HELLO</pattern><template>Hi</template></category>
  <category><pattern>GOODBYE</pattern><template>Bye</template></category>
</aiml>`)
	require.NoError(t, k.Learn(path))

	assert.Equal(t, 2, k.NumTemplates())
}

func TestLookupMissReturnsEmptyString(t *testing.T) {
	k := newTestKernel(t)
	assert.Equal(t, "", k.Respond("s1", "Anything at all"))
}
