package insight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

func TestGenerateInsight(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "  July was the strongest month.\n", Done: true})
	}))
	defer srv.Close()

	repo := NewOllamaRepository(srv.URL+"/", "llama3.2", time.Second)
	text, err := repo.GenerateInsight(context.Background(), `{"id":"money-moved-line-graph"}`)
	if err != nil {
		t.Fatalf("GenerateInsight: %v", err)
	}
	if text != "July was the strongest month." {
		t.Fatalf("unexpected text %q", text)
	}
	if got.Model != "llama3.2" || got.Stream || !strings.Contains(got.Prompt, "money-moved-line-graph") {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestGenerateInsightErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{"))
		}},
		{"empty", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(generateResponse{Done: true})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			if _, err := NewOllamaRepository(srv.URL, "llama3.2", time.Second).GenerateInsight(context.Background(), "{}"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGenerateInsightHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewOllamaRepository(srv.URL, "llama3.2", 5*time.Second).GenerateInsight(ctx, "{}")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestConfigureOverridesDefaults(t *testing.T) {
	var model string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		model = req.Model
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true})
	}))
	defer srv.Close()

	repo := NewOllamaRepository("http://127.0.0.1:1", "llama3.2", time.Second).(*OllamaRepositoryImpl)
	repo.Configure(types.InsightConfig{Endpoint: srv.URL, Model: "mistral", TimeoutSeconds: 5})

	if _, err := repo.GenerateInsight(context.Background(), "{}"); err != nil {
		t.Fatalf("GenerateInsight: %v", err)
	}
	if model != "mistral" || repo.httpClient.Timeout != 5*time.Second {
		t.Fatalf("model = %q, timeout = %s", model, repo.httpClient.Timeout)
	}

	repo.Configure(types.InsightConfig{})
	if repo.model != "mistral" {
		t.Fatalf("empty config reset the model")
	}
}
