// ABOUTME: Entry point for the docsbot Slack answering bot
// ABOUTME: Wires config, docs, answer generation, and the socket-mode runner

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/gbkevin/docsbot/internal/answer"
	"github.com/gbkevin/docsbot/internal/bot"
	"github.com/gbkevin/docsbot/internal/config"
	"github.com/gbkevin/docsbot/internal/dedupe"
	"github.com/gbkevin/docsbot/internal/docs"
	"github.com/gbkevin/docsbot/internal/health"
	"github.com/gbkevin/docsbot/internal/respond"

	"github.com/slack-go/slack"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
     _                 _           _
  __| | ___   ___ ___| |__   ___ | |_
 / _' |/ _ \ / __/ __| '_ \ / _ \| __|
| (_| | (_) | (__\__ \ |_) | (_) | |_
 \__,_|\___/ \___|___/_.__/ \___/ \__|
`

// getConfigPath returns the path to the docsbot config file.
// Priority: DOCSBOT_CONFIG env var > XDG_CONFIG_HOME/docsbot/config.yaml > ~/.config/docsbot/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("DOCSBOT_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "docsbot", "config.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: docsbot <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve            Start the bot")
		fmt.Println("  ask QUESTION...  Answer one question from the terminal")
		fmt.Println("  health           Check that a running bot is up")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "ask":
		err = runAsk(ctx)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	// Version info
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	// Startup info
	green := color.New(color.FgGreen)

	green.Print("    ▶ ")
	fmt.Printf("Config: %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Docs:   %s/%s@%s/%s\n", cfg.Docs.Owner, cfg.Docs.Repo, cfg.Docs.Branch, cfg.Docs.Folder)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:   %s\n", cfg.HTTP.Addr)
	fmt.Println()

	logger.Info("starting docsbot",
		"config", configPath,
		"docs_repo", cfg.Docs.Owner+"/"+cfg.Docs.Repo,
		"http_addr", cfg.HTTP.Addr,
	)

	// Document service, with optional SQLite fallback cache
	var cache *docs.Cache
	if cfg.Docs.CachePath != "" {
		cache, err = docs.OpenCache(cfg.Docs.CachePath)
		if err != nil {
			return fmt.Errorf("opening docs cache: %w", err)
		}
		defer cache.Close()
	}

	fetcher := docs.NewGitHubFetcher(docs.GitHubConfig{
		Owner:  cfg.Docs.Owner,
		Repo:   cfg.Docs.Repo,
		Branch: cfg.Docs.Branch,
		Folder: cfg.Docs.Folder,
		Token:  cfg.Docs.Token,
	}, logger)

	docSvc := docs.NewService(fetcher, cache, cfg.Docs.RefreshInterval, logger)
	if err := docSvc.Load(ctx); err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	defer docSvc.Close()
	logger.Info("documents loaded", "count", docSvc.Library().Len())

	// Answer generation
	llm, err := answer.NewClient(answer.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return fmt.Errorf("creating llm client: %w", err)
	}
	generator := answer.NewGenerator(llm, logger)

	// Slack wiring
	api := slack.New(cfg.Slack.BotToken, slack.OptionAppLevelToken(cfg.Slack.AppToken))
	transport := bot.NewSlackTransport(api)

	responder := respond.New(transport, respond.Options{
		NoticeDelay:      cfg.Responder.NoticeDelay,
		PlaceholderDelay: cfg.Responder.PlaceholderDelay,
		Phrases:          cfg.Responder.Phrases,
		Logger:           logger,
	})

	dedupeCache := dedupe.New(dedupe.DefaultTTL)
	defer dedupeCache.Close()

	handler := bot.NewHandler(transport, responder, generator, docSvc, dedupeCache, logger)
	runner := bot.NewRunner(api, handler, logger)
	keepalive := health.New(cfg.HTTP.Addr, logger)

	// Run the keepalive server and the socket-mode runner until either
	// fails or the context is cancelled.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		errCh <- keepalive.Run(runCtx)
	}()
	go func() {
		defer wg.Done()
		errCh <- runner.Run(runCtx)
	}()

	err = <-errCh
	cancel()
	wg.Wait()
	return err
}

// runAsk answers a single question from the command line, without Slack.
// Useful for checking the docs and prompts before deploying.
func runAsk(ctx context.Context) error {
	question := strings.TrimSpace(strings.Join(os.Args[2:], " "))
	if question == "" {
		return fmt.Errorf("usage: docsbot ask QUESTION...")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	fetcher := docs.NewGitHubFetcher(docs.GitHubConfig{
		Owner:  cfg.Docs.Owner,
		Repo:   cfg.Docs.Repo,
		Branch: cfg.Docs.Branch,
		Folder: cfg.Docs.Folder,
		Token:  cfg.Docs.Token,
	}, logger)

	docSvc := docs.NewService(fetcher, nil, 0, logger)
	if err := docSvc.Load(ctx); err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	defer docSvc.Close()

	llm, err := answer.NewClient(answer.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return fmt.Errorf("creating llm client: %w", err)
	}
	generator := answer.NewGenerator(llm, logger)

	requestID := uuid.New().String()
	logger.Debug("answering question", "request_id", requestID, "question", question)

	reply, err := generator.Answer(ctx, question, docSvc.Library())
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	cyan := color.New(color.FgCyan)
	cyan.Printf("Q: %s\n\n", question)
	fmt.Println(reply)
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := cfg.HTTP.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	url := fmt.Sprintf("http://%s/healthz", addr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
