package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"astra-assistant/internal/analytics"
	"astra-assistant/internal/chat"
	"astra-assistant/internal/config"
	"astra-assistant/internal/gateway"
	"astra-assistant/internal/kb"
	"astra-assistant/internal/scheduler"
	"astra-assistant/internal/session"
	"astra-assistant/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	store, err := session.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to init session store: %v", err)
	}

	gw, err := gateway.NewFromConfig(cfg, readSystemPrompt(cfg.SystemPromptPath))
	if err != nil {
		log.Fatalf("failed to create ai gateway: %v", err)
	}

	manager := chat.NewManager(kb.Default(), gw, store, delaysFromConfig(cfg))

	if cfg.DailyReport {
		sched := scheduler.New()
		sched.SetReportFunction(func(ctx context.Context) error {
			for _, id := range store.EventIdentities() {
				log.Println(analytics.BuildReport(id, store.LoadEvents(id)).Summary())
			}
			return nil
		})
		if err := sched.Start(); err != nil {
			log.Printf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	srv := web.NewServer(manager, cfg.HTTPPort)
	if err := srv.Start(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func readSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("system prompt file not found or unreadable at %s: %v", path, err)
		return ""
	}
	return string(data)
}

func delaysFromConfig(cfg *config.Config) chat.Delays {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return chat.Delays{
		ReplyBase:        ms(cfg.ReplyDelayMs),
		ReplyJitter:      ms(cfg.ReplyJitterMs),
		SuggestionBase:   ms(cfg.SuggestionDelayMs),
		SuggestionJitter: ms(cfg.SuggestionJitterMs),
		FollowupPause:    ms(cfg.FollowupPauseMs),
	}
}
