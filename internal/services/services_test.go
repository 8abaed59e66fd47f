package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/heydj/internal/shared"
)

func completionHandler(t *testing.T, content string, seen *map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotFound)
			return
		}

		body, _ := io.ReadAll(r.Body)
		if seen != nil {
			_ = json.Unmarshal(body, seen)
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func testLLMConfig(baseURL string) shared.LLMConfig {
	return shared.LLMConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Model:          "test-model",
		TimeoutSeconds: 5,
		MaxRetries:     0,
	}
}

func TestOpenAIGenerator(t *testing.T) {
	t.Run("NewOpenAIGenerator", func(t *testing.T) {
		t.Run("Missing API Key", func(t *testing.T) {
			t.Setenv(shared.APIKeyEnv, "")
			cfg := testLLMConfig("http://localhost")
			cfg.APIKey = ""

			_, err := NewOpenAIGenerator(cfg)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Model", func(t *testing.T) {
			cfg := testLLMConfig("http://localhost")
			cfg.Model = ""

			if _, err := NewOpenAIGenerator(cfg); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("API Key From Env", func(t *testing.T) {
			t.Setenv(shared.APIKeyEnv, "env-key")
			cfg := testLLMConfig("http://localhost")
			cfg.APIKey = ""

			gen, err := NewOpenAIGenerator(cfg)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if gen.Model() != "test-model" {
				t.Errorf("expected model test-model, got %s", gen.Model())
			}
		})
	})

	t.Run("Generate", func(t *testing.T) {
		var seen map[string]any
		server := httptest.NewServer(completionHandler(t, `{"search_function":"search_songs"}`, &seen))
		defer server.Close()

		gen, err := NewOpenAIGenerator(testLLMConfig(server.URL))
		if err != nil {
			t.Fatalf("failed to create generator: %v", err)
		}

		got, err := gen.Generate(context.Background(), Request{Step: "query_classifier", Prompt: "classify me", Temperature: 0})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got != `{"search_function":"search_songs"}` {
			t.Errorf("unexpected content %q", got)
		}

		if seen["model"] != "test-model" {
			t.Errorf("expected model test-model in request, got %v", seen["model"])
		}
		if temp, ok := seen["temperature"].(float64); !ok || temp != 0 {
			t.Errorf("expected temperature 0 in request, got %v", seen["temperature"])
		}
		format, _ := seen["response_format"].(map[string]any)
		if format["type"] != "json_object" {
			t.Errorf("expected json_object response format, got %v", seen["response_format"])
		}
		messages, _ := seen["messages"].([]any)
		if len(messages) != 1 {
			t.Fatalf("expected one message, got %v", seen["messages"])
		}
		if msg, _ := messages[0].(map[string]any); msg["role"] != "user" || msg["content"] != "classify me" {
			t.Errorf("unexpected message %v", messages[0])
		}
	})

	t.Run("Generate API Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"bad request","type":"invalid_request_error"}}`))
		}))
		defer server.Close()

		gen, err := NewOpenAIGenerator(testLLMConfig(server.URL))
		if err != nil {
			t.Fatalf("failed to create generator: %v", err)
		}

		_, err = gen.Generate(context.Background(), Request{Step: "tag_generator", Prompt: "x", Temperature: 0.7})
		if !errors.Is(err, shared.ErrGenerationCall) {
			t.Fatalf("expected ErrGenerationCall, got %v", err)
		}

		var gce *GenerationCallError
		if !errors.As(err, &gce) || gce.Step != "tag_generator" {
			t.Errorf("expected GenerationCallError for tag_generator, got %v", err)
		}
	})

	t.Run("Generate No Choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`))
		}))
		defer server.Close()

		gen, _ := NewOpenAIGenerator(testLLMConfig(server.URL))
		if _, err := gen.Generate(context.Background(), Request{Step: "s"}); !errors.Is(err, shared.ErrGenerationCall) {
			t.Errorf("expected ErrGenerationCall, got %v", err)
		}
	})
}

func TestRateLimitedGenerator(t *testing.T) {
	t.Run("Delegates", func(t *testing.T) {
		var calls atomic.Int32
		inner := GeneratorFunc(func(ctx context.Context, req Request) (string, error) {
			calls.Add(1)
			return req.Prompt, nil
		})

		gen := NewRateLimitedGenerator(inner, 0)
		for i := 0; i < 3; i++ {
			got, err := gen.Generate(context.Background(), Request{Prompt: "p"})
			if err != nil || got != "p" {
				t.Fatalf("unexpected result (%q, %v)", got, err)
			}
		}
		if calls.Load() != 3 {
			t.Errorf("expected 3 calls, got %d", calls.Load())
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		inner := GeneratorFunc(func(ctx context.Context, req Request) (string, error) {
			return "", nil
		})
		gen := NewRateLimitedGenerator(inner, 0.001)

		// First call consumes the only token.
		if _, err := gen.Generate(context.Background(), Request{Step: "a"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := gen.Generate(ctx, Request{Step: "b"})
		if !errors.Is(err, shared.ErrGenerationCall) {
			t.Errorf("expected ErrGenerationCall, got %v", err)
		}
	})
}

func TestGenerationCallError(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&GenerationCallError{Step: "playlist_name_generator", Err: cause})

	if !errors.Is(err, shared.ErrGenerationCall) {
		t.Error("expected sentinel match")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause match")
	}
	if !strings.Contains(err.Error(), "playlist_name_generator") {
		t.Errorf("expected step in message, got %q", err.Error())
	}
}
