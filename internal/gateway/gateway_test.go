package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"astra-assistant/internal/llm"
)

func TestHTTPGatewaySuccess(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Question != "what is net?" {
			t.Errorf("unexpected question: %q", req.Question)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "Net is income minus expense.", "source": "gemini"})
	}))
	defer srv.Close()

	ans := NewHTTP(srv.URL).Ask(context.Background(), "what is net?", "tok123")
	if ans.Kind != KindSuccess {
		t.Fatalf("expected success, got %s (%q)", ans.Kind, ans.Text)
	}
	if ans.Text != "Net is income minus expense." {
		t.Fatalf("unexpected answer: %q", ans.Text)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("bearer token not forwarded: %q", gotAuth)
	}
}

func TestHTTPGatewayNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header")
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "ok"})
	}))
	defer srv.Close()

	if ans := NewHTTP(srv.URL).Ask(context.Background(), "q", ""); ans.Kind != KindSuccess {
		t.Fatalf("expected success, got %s", ans.Kind)
	}
}

func TestHTTPGatewayRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Rate limit exceeded. Please wait a few minutes and try again."})
	}))
	defer srv.Close()

	ans := NewHTTP(srv.URL).Ask(context.Background(), "q", "")
	if ans.Kind != KindRateLimited {
		t.Fatalf("expected rate_limited, got %s", ans.Kind)
	}
	if ans.Text != RateLimitMessage {
		t.Fatalf("unexpected advisory text: %q", ans.Text)
	}
}

func TestHTTPGatewayRateLimitedByPayload(t *testing.T) {
	// some relays report the condition in the error body with a 500 status
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Error communicating with AI: 429 Too Many Requests"})
	}))
	defer srv.Close()

	if ans := NewHTTP(srv.URL).Ask(context.Background(), "q", ""); ans.Kind != KindRateLimited {
		t.Fatalf("expected rate_limited, got %s", ans.Kind)
	}
}

func TestHTTPGatewayFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to get response from AI"})
		}))
		defer srv.Close()
		ans := NewHTTP(srv.URL).Ask(context.Background(), "q", "")
		if ans.Kind != KindFailure || ans.Text != FailureMessage {
			t.Fatalf("got %s (%q)", ans.Kind, ans.Text)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()
		ans := NewHTTP(srv.URL).Ask(context.Background(), "q", "")
		if ans.Kind != KindFailure || ans.Text != FailureMessage {
			t.Fatalf("got %s (%q)", ans.Kind, ans.Text)
		}
	})

	t.Run("empty answer field", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"answer": ""})
		}))
		defer srv.Close()
		ans := NewHTTP(srv.URL).Ask(context.Background(), "q", "")
		if ans.Kind != KindFailure || ans.Text != EmptyAnswerMessage {
			t.Fatalf("got %s (%q)", ans.Kind, ans.Text)
		}
	})

	t.Run("network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		ans := NewHTTP(srv.URL).Ask(context.Background(), "q", "")
		if ans.Kind != KindFailure || ans.Text != FailureMessage {
			t.Fatalf("got %s (%q)", ans.Kind, ans.Text)
		}
	})
}

type fakeLLM struct {
	resp llm.Response
	err  error
}

func (f fakeLLM) Generate(_ context.Context, _ []llm.Message) (llm.Response, error) {
	return f.resp, f.err
}

func TestLLMGatewayClassification(t *testing.T) {
	cases := []struct {
		name string
		fake fakeLLM
		kind Kind
		text string
	}{
		{"success", fakeLLM{resp: llm.Response{Content: "hello"}}, KindSuccess, "hello"},
		{"rate limited", fakeLLM{err: fmt.Errorf("status 429 Too Many Requests")}, KindRateLimited, RateLimitMessage},
		{"generic error", fakeLLM{err: fmt.Errorf("connection refused")}, KindFailure, FailureMessage},
		{"empty content", fakeLLM{resp: llm.Response{Content: "  "}}, KindFailure, EmptyAnswerMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ans := NewLLM(tc.fake, "").Ask(context.Background(), "q", "")
			if ans.Kind != tc.kind || ans.Text != tc.text {
				t.Fatalf("got %s (%q), want %s (%q)", ans.Kind, ans.Text, tc.kind, tc.text)
			}
		})
	}
}
