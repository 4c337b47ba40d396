// Package session implements the SessionStore: per-session predicates plus
// the bounded input/output history and the per-call input stack spec.md
// §3/§4.4 describe. A session is created lazily on first reference, the
// same way the teacher's SessionManager.GetOrCreateSession works, and is
// backed either by an in-memory map (default) or, in persistent mode, by a
// bbolt bucket per session (see BoltStore).
package session

const (
	// HistoryLimit bounds the _inputHistory and _outputHistory FIFOs.
	HistoryLimit = 10

	// Reserved predicate names (spec.md §3). The three underscore-prefixed
	// names are managed directly by the Store and the Kernel that drives it.
	// "topic" is stored as an ordinary predicate, so templates can read and
	// set it through GetPredicate/SetPredicate as well as Topic/SetTopic.
	PredInputHistory  = "_inputHistory"
	PredOutputHistory = "_outputHistory"
	PredInputStack    = "_inputStack"
	PredTopic         = "topic"

	// DefaultTopic is the value `topic` takes until set.
	DefaultTopic = "*"
)

// Store is the interface the interpreter and kernel depend on, satisfied by
// both MemStore and BoltStore so the persistence backend is an
// implementation swap, not a call-site one.
type Store interface {
	// GetPredicate returns the session's value for name, or "" if unset.
	GetPredicate(sessionID, name string) string
	// SetPredicate assigns value to name, creating the session if needed.
	SetPredicate(sessionID, name, value string)

	// PushInput records an utterance onto the per-call input stack.
	PushInput(sessionID, input string)
	// PopInput removes and discards the most recent input-stack entry.
	PopInput(sessionID string)
	// InputStack returns the current input stack, most recent last.
	InputStack(sessionID string) []string

	// AppendInputHistory records a finished user turn, trimming to
	// HistoryLimit from the front on overflow.
	AppendInputHistory(sessionID, input string)
	// AppendOutputHistory records a finished bot turn, trimming to
	// HistoryLimit from the front on overflow.
	AppendOutputHistory(sessionID, output string)
	// InputHistory returns the session's input history, oldest first.
	InputHistory(sessionID string) []string
	// OutputHistory returns the session's output history, oldest first.
	OutputHistory(sessionID string) []string

	// Topic returns the session's current topic, defaulting to "*".
	Topic(sessionID string) string
	// SetTopic assigns the session's topic.
	SetTopic(sessionID, topic string)

	// Close releases any resources held by the store (a no-op for
	// MemStore, a database close for BoltStore).
	Close() error
}

func appendBounded(list []string, v string) []string {
	list = append(list, v)
	if len(list) > HistoryLimit {
		list = list[len(list)-HistoryLimit:]
	}
	return list
}
