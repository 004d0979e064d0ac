package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestOpenAICompatSend(t *testing.T) {
	var captured chatCompletionRequest
	var gotAuth, gotPath string
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":" hello there "}}]}`), nil
	})}

	p, err := NewOpenAICompat(OpenAICompatOptions{
		Name:       "deepseek",
		APIKey:     "sk-test",
		BaseURL:    "https://api.deepseek.com/v1",
		Model:      "deepseek-chat",
		HTTPClient: client,
	})
	if err != nil {
		t.Fatalf("NewOpenAICompat returned error: %v", err)
	}

	got, err := p.Send(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("Send = %q, want %q", got, "hello there")
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("path = %q, want /v1/chat/completions", gotPath)
	}
	if captured.Model != "deepseek-chat" {
		t.Fatalf("request model = %q", captured.Model)
	}
	if captured.MaxTokens != maxCompletionTokens {
		t.Fatalf("max_tokens = %d, want %d", captured.MaxTokens, maxCompletionTokens)
	}
	if captured.Temperature != completionTemperature {
		t.Fatalf("temperature = %v, want %v", captured.Temperature, completionTemperature)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Content != "hi" {
		t.Fatalf("messages = %#v", captured.Messages)
	}
}

func TestOpenAICompatSendErrors(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
	}{
		{name: "http error status", resp: jsonResponse(http.StatusTooManyRequests, `{"error":"rate limited"}`)},
		{name: "no choices", resp: jsonResponse(http.StatusOK, `{"choices":[]}`)},
		{name: "empty content", resp: jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return tc.resp, nil
			})}
			p, err := NewOpenAICompat(OpenAICompatOptions{
				Name:       "openai",
				APIKey:     "sk-test",
				BaseURL:    "https://api.openai.com/v1",
				Model:      "gpt-4o-mini",
				HTTPClient: client,
			})
			if err != nil {
				t.Fatalf("NewOpenAICompat returned error: %v", err)
			}
			if _, err := p.Send(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewOpenAICompatRequiresKeyAndModel(t *testing.T) {
	if _, err := NewOpenAICompat(OpenAICompatOptions{Name: "glm", Model: "glm-4-9b"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewOpenAICompat(OpenAICompatOptions{Name: "glm", APIKey: "k"}); err == nil {
		t.Fatal("expected error for missing model")
	}
}
