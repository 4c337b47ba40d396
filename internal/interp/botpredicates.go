package interp

import "sync"

// BotPredicates is the global bot predicate table (spec.md §3), distinct
// from per-session predicates. Setting "name" also renames the CategoryStore's
// BOT_NAME resolution target, since the two must always agree.
type BotPredicates struct {
	mu   sync.RWMutex
	vals map[string]string

	// onNameChange is invoked (outside the lock) whenever "name" is set,
	// so the CategoryStore can be told via SetBotName.
	onNameChange func(name string)
}

// NewBotPredicates creates an empty bot predicate table. onNameChange may
// be nil.
func NewBotPredicates(onNameChange func(name string)) *BotPredicates {
	return &BotPredicates{vals: make(map[string]string), onNameChange: onNameChange}
}

// Get returns the bot predicate's value, or "" if unset.
func (b *BotPredicates) Get(name string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.vals[name]
}

// Set assigns a bot predicate.
func (b *BotPredicates) Set(name, value string) {
	b.mu.Lock()
	b.vals[name] = value
	b.mu.Unlock()
	if name == "name" && b.onNameChange != nil {
		b.onNameChange(value)
	}
}
