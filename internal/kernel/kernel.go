// Package kernel implements the Kernel façade: the single entry point that
// orchestrates load → match → interpret → history update under one
// process-wide lock (spec.md §4.6/§5; see Kernel for how template-side
// reentrancy avoids re-acquiring it). It owns the CategoryStore,
// SessionStore, bot predicates, and WordSub tables, and wires Prometheus
// metrics and the teacher's own Config.Debug-gated logging around the
// response path without touching its decision logic.
package kernel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cdwfs/aiml/internal/aimlparse"
	"github.com/cdwfs/aiml/internal/interp"
	"github.com/cdwfs/aiml/internal/metrics"
	"github.com/cdwfs/aiml/internal/normalize"
	"github.com/cdwfs/aiml/internal/session"
	"github.com/cdwfs/aiml/internal/store"
	"github.com/cdwfs/aiml/internal/wordsub"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Config controls Kernel construction. Debug matches the teacher's own
// Config.Debug switch (engine/bot.go), gating fmt.Fprintf(os.Stderr, ...)
// tracing rather than a logging library — there is none anywhere in the
// corpus this lineage draws from.
type Config struct {
	Debug            bool
	EnableUnderscore bool
}

// Kernel is the façade described by spec.md §4.6. A single lock serializes
// every top-level Respond/Learn call. Template-side reentrancy — <srai>
// and <learn> re-entering the response path from inside template
// processing — never re-acquires this lock: <srai>/<sr> call the
// Evaluator's inner RespondOne directly (spec.md §4.6's "_respond", which
// never locks), and <learn> is wired to learnLocked, the lock-free half of
// Learn, since it only ever fires while a Respond call already holds the
// lock. A plain sync.Mutex is therefore enough; no hand-rolled reentrant
// primitive is needed.
type Kernel struct {
	store    *store.Store
	sessions session.Store
	bot      *interp.BotPredicates
	eval     *interp.Evaluator
	parser   *aimlparse.Parser
	metrics  *metrics.Metrics
	cfg      Config

	mu sync.Mutex
}

// New creates a Kernel. sessions may be nil, in which case an in-memory
// SessionStore is used. reg may be nil, in which case metrics are
// registered against prometheus.DefaultRegisterer.
func New(cfg Config, sessions session.Store, reg prometheus.Registerer) *Kernel {
	if sessions == nil {
		sessions = session.NewMemStore()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	st := store.New()
	st.EnableUnderscore = cfg.EnableUnderscore
	bot := interp.NewBotPredicates(func(name string) { st.SetBotName(name) })
	ev := interp.New(st, sessions, bot, nil)
	ev.Debug = cfg.Debug

	k := &Kernel{
		store:    st,
		sessions: sessions,
		bot:      bot,
		eval:     ev,
		parser:   aimlparse.NewParser(),
		metrics:  metrics.New(reg),
		cfg:      cfg,
	}
	ev.Learn = k.learnLocked
	ev.OnLookupMiss = k.metrics.LookupMissTotal.Inc
	return k
}

func (k *Kernel) debugf(format string, args ...interface{}) {
	if k.cfg.Debug {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// SetBotPredicate sets a global bot predicate (spec.md §3); setting "name"
// also updates the CategoryStore's BOT_NAME resolution.
func (k *Kernel) SetBotPredicate(name, value string) { k.bot.Set(name, value) }

// BotPredicate reads a global bot predicate.
func (k *Kernel) BotPredicate(name string) string { return k.bot.Get(name) }

// SetSubbers installs the WordSub tables loaded from the substitution INI
// file (spec.md §4.2/§6). Conventional section names are "normal",
// "gender", "person", "person2".
func (k *Kernel) SetSubbers(subbers map[string]*wordsub.Subber) {
	k.eval.Subbers = subbers
}

// NewSessionID mints a fresh session identifier for front ends that don't
// supply their own (spec.md §4.4's id minting, via google/uuid).
func NewSessionID() string { return uuid.NewString() }

// Learn loads a single AIML file and inserts its categories into the
// CategoryStore. Per spec.md §7, a ParseError aborts only this file; the
// store is left untouched on failure (the parser's batch emit means no
// partial categories are installed).
func (k *Kernel) Learn(path string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.learnLocked(path)
}

func (k *Kernel) learnLocked(path string) error {
	cats, err := k.parser.ParseFile(path)
	if err != nil {
		k.debugf("failed to load %s: %v", path, err)
		return err
	}
	for _, cat := range cats {
		k.store.Insert(cat.Pattern, cat.That, cat.Topic, cat.Template)
	}
	k.debugf("loaded %d categories from %s", len(cats), path)
	return nil
}

// LoadPath loads path if it is a single file, or every .aiml file directly
// inside path if it is a directory, the way the teacher's Bot.LoadAIML
// walks a directory (engine/bot.go). Subdirectories are not descended
// into, and files without the .aiml suffix (substitution .ini files
// included) are skipped. Loading stops at the first file that fails.
func (k *Kernel) LoadPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return k.Learn(path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		full := filepath.Join(path, entry.Name())
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".aiml") {
			if err := k.Learn(full); err != nil {
				return err
			}
		}
	}
	return nil
}

// NumTemplates returns the CategoryStore's template count (spec.md §3).
func (k *Kernel) NumTemplates() int { return k.store.NumTemplates() }

// RestoreBrain loads a previously saved CategoryStore from path, replacing
// whatever has been Learn()ed so far. Use instead of LoadPath to skip
// re-parsing AIML sources on every startup (SPEC_FULL.md §4.3).
func (k *Kernel) RestoreBrain(path string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return k.store.Restore(f)
}

// SaveBrain writes the current CategoryStore to path, for a later
// RestoreBrain call.
func (k *Kernel) SaveBrain(path string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return k.store.Save(f)
}

// Respond is spec.md §4.6's top-level entry point.
func (k *Kernel) Respond(sessionID, input string) string {
	k.mu.Lock()
	defer k.mu.Unlock()

	start := time.Now()
	defer func() {
		k.metrics.RespondTotal.Inc()
		k.metrics.RespondDuration.Observe(time.Since(start).Seconds())
	}()

	var parts []string
	for _, sentence := range normalize.Sentences(input) {
		k.sessions.AppendInputHistory(sessionID, sentence)
		response := k.eval.RespondOne(sessionID, sentence)
		k.sessions.AppendOutputHistory(sessionID, response)
		if response != "" {
			parts = append(parts, response)
		}
	}

	if stack := k.sessions.InputStack(sessionID); len(stack) != 0 {
		k.debugf("BUG: input stack not empty after respond: %v", stack)
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// Close releases the session store's resources (e.g. closing a bbolt
// database), satisfying spec.md §5's "teardown must close all open
// sessions."
func (k *Kernel) Close() error {
	return k.sessions.Close()
}
