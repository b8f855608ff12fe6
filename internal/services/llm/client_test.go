package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"slate/internal/schema"
)

func testGenSchema() schema.Schema {
	return schema.Schema{
		Name: "risk",
		Fields: []schema.Field{
			{Name: "level", Kind: schema.KindString, Required: true, Enum: []string{"LOW", "MEDIUM", "HIGH"}},
			schema.Confidence(),
		},
	}
}

func completionBody(content string) string {
	encoded, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(encoded)
}

func newTestClient(baseURL string, attempts int) *Client {
	return NewClient(Config{
		APIKey:           "test-key",
		BaseURL:          baseURL,
		Model:            "test/model",
		RetryMaxAttempts: attempts,
	}, WithSleeper(func(time.Duration) {}))
}

func TestGenerateObjectSuccess(t *testing.T) {
	var gotSystem string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header: %q", got)
		}
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotSystem = req.Messages[0].Content
		fmt.Fprint(w, completionBody("```json\n{\"level\": \"HIGH\", \"confidence\": 0.9}\n```"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 1)
	raw, err := client.GenerateObject(context.Background(), Request{
		System: "You assess production risk.",
		Prompt: "Scenes: ...",
		Schema: testGenSchema(),
	})
	if err != nil {
		t.Fatalf("GenerateObject: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("returned payload not JSON: %v", err)
	}
	if decoded["level"] != "HIGH" {
		t.Fatalf("payload: %v", decoded)
	}
	for _, want := range []string{"You assess production risk.", "\"level\"", "one of: LOW, MEDIUM, HIGH"} {
		if !strings.Contains(gotSystem, want) {
			t.Fatalf("system prompt missing %q:\n%s", want, gotSystem)
		}
	}
}

func TestGenerateObjectSchemaViolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody(`{"level": "EXTREME", "confidence": 0.9}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 1)
	_, err := client.GenerateObject(context.Background(), Request{Prompt: "x", Schema: testGenSchema()})
	if err == nil {
		t.Fatal("expected schema violation error")
	}
	if !strings.Contains(err.Error(), "not in") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateObjectRetriesOn429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, completionBody(`{"level": "LOW", "confidence": 0.4}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)
	if _, err := client.GenerateObject(context.Background(), Request{Prompt: "x", Schema: testGenSchema()}); err != nil {
		t.Fatalf("GenerateObject: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestGenerateObjectNoRetryOn400(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "bad model"}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)
	_, err := client.GenerateObject(context.Background(), Request{Prompt: "x", Schema: testGenSchema()})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected single call, got %d", calls)
	}
}

func TestGenerateObjectValidatesInputs(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0", 1)
	if _, err := client.GenerateObject(context.Background(), Request{Schema: testGenSchema()}); err == nil {
		t.Fatal("expected error for missing prompt")
	}

	noKey := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	if _, err := noKey.GenerateObject(context.Background(), Request{Prompt: "x", Schema: testGenSchema()}); err == nil {
		t.Fatal("expected error for missing api key")
	}

	if _, err := client.GenerateObject(context.Background(), Request{Prompt: "x"}); err == nil {
		t.Fatal("expected error for empty schema")
	}
}

func TestGenerateObjectHonorsDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := client.GenerateObject(ctx, Request{Prompt: "x", Schema: testGenSchema()})
	if err == nil {
		t.Fatal("expected deadline error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("deadline not honored, took %s", elapsed)
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody(`{"ok": true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 1)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}
