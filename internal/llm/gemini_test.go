// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleGeminiJSON = `{
  "candidates": [
    {"content": {"parts": [{"text": "0.85"}]}}
  ]
}`

func withTestServer(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := geminiAPIBase
	geminiAPIBase = ts.URL + "/"
	t.Cleanup(func() { geminiAPIBase = old })

	return &GeminiClient{APIKey: "test-key", Model: "models/gemini-test", Client: ts.Client()}
}

func TestGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest

	c := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleGeminiJSON)
	})

	got, err := c.Generate(context.Background(), "rate this paper")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "0.85" {
		t.Errorf("Generate() = %q, want %q", got, "0.85")
	}
	if !strings.HasSuffix(gotPath, "models/gemini-test:generateContent") {
		t.Errorf("request path = %q, want generateContent for model", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("x-goog-api-key = %q, want %q", gotKey, "test-key")
	}
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 ||
		gotReq.Contents[0].Parts[0].Text != "rate this paper" {
		t.Errorf("request body did not carry the prompt: %+v", gotReq)
	}
}

func TestGenerate_NonOKStatus(t *testing.T) {
	c := withTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Generate() error = nil, want non-nil for HTTP 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %q does not mention status code", err)
	}
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	c := withTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"candidates": []}`)
	})

	_, err := c.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Generate() error = nil, want non-nil for empty candidates")
	}
}

func TestNewGeminiClient(t *testing.T) {
	if _, err := NewGeminiClient("", "m"); err == nil {
		t.Error("NewGeminiClient with empty key: error = nil, want non-nil")
	}

	c, err := NewGeminiClient("k", "")
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}
	if c.Model == "" {
		t.Error("default model not applied")
	}

	c, err = NewGeminiClient("k", "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}
	if c.Model != "models/gemini-2.5-flash" {
		t.Errorf("model = %q, want models/ prefix applied", c.Model)
	}
}
