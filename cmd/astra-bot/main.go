package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"astra-assistant/internal/chat"
	"astra-assistant/internal/config"
	"astra-assistant/internal/gateway"
	"astra-assistant/internal/kb"
	"astra-assistant/internal/session"
	"astra-assistant/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required for the telegram shell")
	}

	store, err := session.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to init session store: %v", err)
	}

	gw, err := gateway.NewFromConfig(cfg, readSystemPrompt(cfg.SystemPromptPath))
	if err != nil {
		log.Fatalf("failed to create ai gateway: %v", err)
	}

	manager := chat.NewManager(kb.Default(), gw, store, delaysFromConfig(cfg))

	bot, err := telegram.New(cfg.TelegramBotToken, manager)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	bot.Start(context.Background())
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
