package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/imlogolabs/studio/internal/providers"
)

func TestDescribeImage(t *testing.T) {
	var got struct {
		Model  string   `json:"model"`
		Prompt string   `json:"prompt"`
		Images []string `json:"images"`
		Stream bool     `json:"stream"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected /api/generate, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Invalid request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"A teal wave logo"}`))
	}))
	defer server.Close()

	text, err := NewWithURL(server.URL).DescribeImage(context.Background(), providers.Config{
		Model:  "llava:13b",
		Prompt: "describe",
		Image:  []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("DescribeImage failed: %v", err)
	}
	if text != "A teal wave logo" {
		t.Errorf("Expected reply text, got %q", text)
	}
	if got.Model != "llava:13b" || got.Stream {
		t.Errorf("Unexpected request: %+v", got)
	}
	if len(got.Images) != 1 || got.Images[0] != base64.StdEncoding.EncodeToString([]byte("png-bytes")) {
		t.Errorf("Expected base64 image, got %v", got.Images)
	}
}

func TestDescribeImageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := NewWithURL(server.URL).DescribeImage(context.Background(), providers.Config{Model: "none"}); err == nil {
		t.Error("Expected error for non-200 response")
	}
}
