package gateway

import (
	"fmt"

	"astra-assistant/internal/config"
	"astra-assistant/internal/llm"
)

// NewFromConfig builds the gateway selected by AI_PROVIDER. The default is
// the HTTP relay, matching the original deployment; openai and yandex talk to
// the provider directly.
func NewFromConfig(cfg *config.Config, systemPrompt string) (Gateway, error) {
	switch cfg.AIProvider {
	case config.ProviderHTTP, "":
		return NewHTTP(cfg.ChatEndpoint), nil
	case config.ProviderOpenAI:
		return NewLLM(llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), systemPrompt), nil
	case config.ProviderYandex:
		client, err := llm.NewYandex(cfg.YandexOAuthToken, cfg.YandexFolderID)
		if err != nil {
			return nil, err
		}
		return NewLLM(client, systemPrompt), nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %s", cfg.AIProvider)
	}
}
