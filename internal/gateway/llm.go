package gateway

import (
	"context"
	"log"
	"strings"

	"astra-assistant/internal/llm"
)

// LLMGateway answers questions through a configured provider directly instead
// of the HTTP relay. The bearer token is unused; provider credentials come
// from configuration.
type LLMGateway struct {
	client       llm.Client
	systemPrompt string
}

func NewLLM(client llm.Client, systemPrompt string) *LLMGateway {
	return &LLMGateway{client: client, systemPrompt: systemPrompt}
}

func (g *LLMGateway) Ask(ctx context.Context, question, _ string) Answer {
	var msgs []llm.Message
	if g.systemPrompt != "" {
		msgs = append(msgs, llm.Message{Role: "system", Content: g.systemPrompt})
	}
	msgs = append(msgs, llm.Message{Role: "user", Content: question})

	resp, err := g.client.Generate(ctx, msgs)
	if err != nil {
		log.Printf("llm generate failed: %v", err)
		if isRateLimited(err) {
			return Answer{Text: RateLimitMessage, Kind: KindRateLimited}
		}
		return Answer{Text: FailureMessage, Kind: KindFailure}
	}
	if strings.TrimSpace(resp.Content) == "" {
		return Answer{Text: EmptyAnswerMessage, Kind: KindFailure}
	}
	return Answer{Text: resp.Content, Kind: KindSuccess}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "Too Many Requests") || strings.Contains(strings.ToLower(msg), "rate limit")
}
