package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artguide/internal/domain"
	"github.com/kailas-cloud/artguide/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterLLMMetrics()
	os.Exit(m.Run())
}

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func writeCompletion(w http.ResponseWriter, content string, prompt, completion int) {
	resp := map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{
			"prompt_tokens":     prompt,
			"completion_tokens": completion,
			"total_tokens":      prompt + completion,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func newTestCompleter(url string) *Completer {
	return NewCompleter(&Config{
		APIKey:   "test-key",
		BaseURL:  url,
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func TestCompleter_Complete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeCompletion(w, `{"searchTerms":"Rembrandt"}`, 30, 12)
	}))
	defer server.Close()

	c := newTestCompleter(server.URL)
	result, err := c.Complete(context.Background(), domain.Prompt{
		Model:     "test-model",
		System:    "you are an art historian",
		User:      "rembrandt portraits",
		MaxTokens: 400,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if result.Text != `{"searchTerms":"Rembrandt"}` {
		t.Errorf("text = %q", result.Text)
	}
	if result.PromptTokens != 30 || result.OutputTokens != 12 || result.TotalTokens != 42 {
		t.Errorf("usage = %+v", result)
	}

	if got.Model != "test-model" || got.MaxTokens != 400 {
		t.Errorf("request model=%q max_tokens=%d", got.Model, got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if got.Messages[1].Content != "rembrandt portraits" {
		t.Errorf("user content = %q", got.Messages[1].Content)
	}
}

func TestCompleter_NoSystemPrompt(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeCompletion(w, "hello", 1, 1)
	}))
	defer server.Close()

	c := newTestCompleter(server.URL)
	if _, err := c.Complete(context.Background(), domain.Prompt{Model: "m", User: "hi"}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestCompleter_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	c := newTestCompleter(server.URL)
	_, err := c.Complete(context.Background(), domain.Prompt{Model: "m", User: "hi"})
	if !errors.Is(err, domain.ErrMalformedUpstream) {
		t.Errorf("expected ErrMalformedUpstream, got %v", err)
	}
}

func TestCompleter_APIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"openai format", http.StatusUnauthorized, `{"error":{"message":"invalid api key","type":"auth"}}`},
		{"detail format", http.StatusBadRequest, `{"detail":"model not found"}`},
		{"plain text", http.StatusBadGateway, `bad gateway`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			c := newTestCompleter(server.URL)
			_, err := c.Complete(context.Background(), domain.Prompt{Model: "m", User: "hi"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrUpstreamUnavailable) {
				t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
			}
		})
	}
}

func TestCompleter_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer server.Close()

	if err := newTestCompleter(server.URL).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail":"boom"}`)); got != "boom" {
		t.Errorf("got %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("got %q", got)
	}
}
