// Command golem is the interactive CLI front end: it loads AIML sources,
// builds a Kernel, and drops into a stdin/stdout conversation loop calling
// Kernel.Respond, the way the teacher's own cmd/golem/main.go does.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cdwfs/aiml/internal/config"
	"github.com/cdwfs/aiml/internal/kernel"
	"github.com/cdwfs/aiml/internal/session"
	"github.com/cdwfs/aiml/internal/wordsub"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var (
		loadPath   = flag.String("load", "", "Path to an AIML file or directory to load")
		configPath = flag.String("config", "", "Path to a YAML config file")
		debug      = flag.Bool("debug", false, "Enable debug output")
	)
	flag.Parse()

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *debug {
		cfg.Debug = true
	}

	sessions, err := buildSessionStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session store: %v\n", err)
		os.Exit(1)
	}

	k := kernel.New(kernel.Config{Debug: cfg.Debug, EnableUnderscore: cfg.EnableUnderscore}, sessions, nil)
	defer k.Close()

	for name, value := range cfg.BotPredicates {
		k.SetBotPredicate(name, value)
	}
	if cfg.SubstitutionFile != "" {
		subbers, err := wordsub.LoadINI(cfg.SubstitutionFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading substitution file: %v\n", err)
			os.Exit(1)
		}
		k.SetSubbers(subbers)
	}

	brainLoaded := false
	if cfg.BrainFile != "" {
		if err := k.RestoreBrain(cfg.BrainFile); err == nil {
			brainLoaded = true
		} else if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error restoring brain file %s: %v\n", cfg.BrainFile, err)
			os.Exit(1)
		}
	}

	if !brainLoaded {
		paths := cfg.AIMLPaths
		if *loadPath != "" {
			paths = append(paths, *loadPath)
		}
		for _, p := range paths {
			matches, err := filepath.Glob(p)
			if err != nil || len(matches) == 0 {
				matches = []string{p}
			}
			for _, m := range matches {
				if err := k.LoadPath(m); err != nil {
					fmt.Fprintf(os.Stderr, "Error loading AIML: %v\n", err)
					os.Exit(1)
				}
			}
		}
		if cfg.BrainFile != "" {
			if err := k.SaveBrain(cfg.BrainFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error saving brain file %s: %v\n", cfg.BrainFile, err)
			}
		}
	}

	if cfg.Metrics.Enabled {
		addr := cfg.Metrics.Addr
		if addr == "" {
			addr = ":9090"
		}
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			fmt.Fprintf(os.Stderr, "Error serving metrics: %v\n", http.ListenAndServe(addr, nil))
		}()
	}

	sessionID := kernel.NewSessionID()

	fmt.Println("Golem AIML Bot")
	fmt.Println("Type 'quit' or 'exit' to exit")
	fmt.Println("Type your message and press Enter:")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			fmt.Println("Goodbye!")
			break
		}

		response := k.Respond(sessionID, input)
		fmt.Println(response)
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func buildSessionStore(cfg *config.Config) (session.Store, error) {
	if cfg.Persistence.Mode != "bolt" {
		return session.NewMemStore(), nil
	}
	return session.OpenBoltStore(cfg.Persistence.BoltPath)
}
