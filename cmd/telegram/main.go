// Command telegram bridges a Kernel to Telegram, mapping each chat to a
// Kernel session keyed by chat ID (SPEC_FULL.md §6's additive Telegram
// bridge interface). It adapts github.com/go-telegram/bot, grounded on the
// sibling teacher repo's own telegram_bot.go.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/cdwfs/aiml/internal/config"
	"github.com/cdwfs/aiml/internal/kernel"
	"github.com/cdwfs/aiml/internal/session"
	"github.com/cdwfs/aiml/internal/wordsub"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// bridge maps Telegram chats to Kernel sessions.
type bridge struct {
	kernel   *kernel.Kernel
	sessions map[int64]string
	verbose  bool
}

func newBridge(k *kernel.Kernel, verbose bool) *bridge {
	return &bridge{kernel: k, sessions: make(map[int64]string), verbose: verbose}
}

func (br *bridge) sessionFor(chatID int64) string {
	if id, ok := br.sessions[chatID]; ok {
		return id
	}
	id := fmt.Sprintf("telegram_%d", chatID)
	br.sessions[chatID] = id
	return id
}

func (br *bridge) handleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	if text == "" {
		return
	}

	sessionID := br.sessionFor(chatID)
	if br.verbose {
		log.Printf("chat %d: user said: %s", chatID, text)
	}

	response := br.kernel.Respond(sessionID, text)
	if response == "" {
		response = "..."
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: response}); err != nil {
		log.Printf("failed to send message to chat %d: %v", chatID, err)
	}
	if br.verbose {
		log.Printf("chat %d: bot replied: %s", chatID, response)
	}
}

func main() {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	configPath := os.Getenv("AIML_CONFIG")
	if token == "" || configPath == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN and AIML_CONFIG environment variables are required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if tok := cfg.TelegramToken(); tok != "" {
		token = tok
	}

	sessions, err := buildSessionStore(cfg)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}

	k := kernel.New(kernel.Config{Debug: cfg.Debug, EnableUnderscore: cfg.EnableUnderscore}, sessions, nil)
	defer k.Close()

	for name, value := range cfg.BotPredicates {
		k.SetBotPredicate(name, value)
	}
	if cfg.SubstitutionFile != "" {
		subbers, err := wordsub.LoadINI(cfg.SubstitutionFile)
		if err != nil {
			log.Fatalf("failed to load substitution file: %v", err)
		}
		k.SetSubbers(subbers)
	}
	brainLoaded := false
	if cfg.BrainFile != "" {
		if err := k.RestoreBrain(cfg.BrainFile); err == nil {
			brainLoaded = true
		} else if !os.IsNotExist(err) {
			log.Fatalf("failed to restore brain file %s: %v", cfg.BrainFile, err)
		}
	}
	if !brainLoaded {
		for _, p := range cfg.AIMLPaths {
			matches, err := filepath.Glob(p)
			if err != nil || len(matches) == 0 {
				matches = []string{p}
			}
			for _, path := range matches {
				if err := k.LoadPath(path); err != nil {
					log.Fatalf("failed to load AIML from %s: %v", path, err)
				}
			}
		}
		if cfg.BrainFile != "" {
			if err := k.SaveBrain(cfg.BrainFile); err != nil {
				log.Printf("failed to save brain file %s: %v", cfg.BrainFile, err)
			}
		}
	}

	br := newBridge(k, cfg.Debug)

	b, err := bot.New(token)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypeContains, br.handleMessage)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Printf("starting AIML Telegram bridge")
	b.Start(ctx)
}

func buildSessionStore(cfg *config.Config) (session.Store, error) {
	if cfg.Persistence.Mode != "bolt" {
		return session.NewMemStore(), nil
	}
	return session.OpenBoltStore(cfg.Persistence.BoltPath)
}
