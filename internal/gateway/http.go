package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

// HTTPGateway talks to the chat relay endpoint: POST {question} with an
// optional bearer token, expecting {answer} back on success.
type HTTPGateway struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTP(endpoint string) *HTTPGateway {
	return &HTTPGateway{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error"`
}

func (g *HTTPGateway) Ask(ctx context.Context, question, authToken string) Answer {
	body, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return Answer{Text: FailureMessage, Kind: KindFailure}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return Answer{Text: FailureMessage, Kind: KindFailure}
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("ai gateway request failed: %v", err)
		return Answer{Text: FailureMessage, Kind: KindFailure}
	}
	defer func(r *http.Response) {
		_ = r.Body.Close()
	}(resp)

	var parsed askResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)
	if decodeErr != nil {
		parsed = askResponse{}
	}

	// The relay reports rate limiting either as a 429 or as an error payload.
	if resp.StatusCode == http.StatusTooManyRequests || strings.Contains(parsed.Error, "Too Many Requests") {
		return Answer{Text: RateLimitMessage, Kind: KindRateLimited}
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("ai gateway returned status %d: %s", resp.StatusCode, parsed.Error)
		return Answer{Text: FailureMessage, Kind: KindFailure}
	}
	if decodeErr != nil {
		log.Printf("ai gateway returned an unreadable body: %v", decodeErr)
		return Answer{Text: FailureMessage, Kind: KindFailure}
	}
	// A readable body with no answer is a softer condition than a broken
	// connection: nudge a retry instead of pointing at the FAQ.
	if parsed.Answer == "" {
		return Answer{Text: EmptyAnswerMessage, Kind: KindFailure}
	}
	return Answer{Text: parsed.Answer, Kind: KindSuccess}
}
