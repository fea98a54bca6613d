package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type AIProvider string

const (
	ProviderHTTP   AIProvider = "http"
	ProviderOpenAI AIProvider = "openai"
	ProviderYandex AIProvider = "yandex"
)

type Config struct {
	// AI gateway settings
	AIProvider       AIProvider `env:"AI_PROVIDER" envDefault:"http"`
	ChatEndpoint     string     `env:"CHAT_ENDPOINT" envDefault:"http://localhost:8080/api/chat/ask"`
	OpenAIAPIKey     string     `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string     `env:"OPENAI_BASE_URL"`
	OpenAIModel      string     `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	YandexOAuthToken string     `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string     `env:"YANDEX_FOLDER_ID"`
	SystemPromptPath string     `env:"SYSTEM_PROMPT_PATH"`

	// Storage
	DataDir string `env:"DATA_DIR" envDefault:"data/astra"`

	// Typing-delay tuning (milliseconds); zeroed in tests
	ReplyDelayMs       int `env:"REPLY_DELAY_MS" envDefault:"600"`
	ReplyJitterMs      int `env:"REPLY_JITTER_MS" envDefault:"700"`
	SuggestionDelayMs  int `env:"SUGGESTION_DELAY_MS" envDefault:"500"`
	SuggestionJitterMs int `env:"SUGGESTION_JITTER_MS" envDefault:"600"`
	FollowupPauseMs    int `env:"FOLLOWUP_PAUSE_MS" envDefault:"120"`

	// Web shell
	HTTPPort int `env:"HTTP_PORT" envDefault:"8081"`

	// Daily usage report
	DailyReport bool `env:"DAILY_REPORT" envDefault:"true"`

	// Telegram shell
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
