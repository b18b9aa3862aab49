package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/haneulclass/saengibu-backend/internal/config"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		BaseURL:         "http://upstream",
		APIKey:          "test-key",
		Model:           "upstream-model",
		Temperature:     0.3,
		MaxOutputTokens: 700,
		Timeout:         config.Duration{Duration: 2 * time.Second},
	}
}

func jsonResponse(status int, body any) *http.Response {
	b, _ := json.Marshal(body)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
	}
}

func TestGenerate(t *testing.T) {
	httpClient := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/v1/chat/completions" {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if got := req.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Fatalf("authorization=%q", got)
			}

			var in chatCompletionRequest
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				t.Fatalf("decode req: %v", err)
			}
			if in.Model != "upstream-model" {
				t.Fatalf("model=%q", in.Model)
			}
			if in.Temperature != 0.3 {
				t.Fatalf("temperature=%v", in.Temperature)
			}
			if in.MaxTokens != 700 {
				t.Fatalf("max_tokens=%d", in.MaxTokens)
			}
			if len(in.Messages) != 1 || in.Messages[0].Role != "user" {
				t.Fatalf("messages=%+v", in.Messages)
			}

			return jsonResponse(http.StatusOK, map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": "  수업에 성실히 참여함.  "}},
				},
			}), nil
		}),
	}

	c, err := NewWithHTTPClient(testEngineConfig(), httpClient)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}

	out, err := c.Generate(context.Background(), "프롬프트")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "수업에 성실히 참여함." {
		t.Fatalf("out=%q", out)
	}
}

func TestGenerateLegacyTextField(t *testing.T) {
	httpClient := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, map[string]any{
				"choices": []map[string]any{{"text": "완성형 응답임"}},
			}), nil
		}),
	}

	c, err := NewWithHTTPClient(testEngineConfig(), httpClient)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	out, err := c.Generate(context.Background(), "프롬프트")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "완성형 응답임" {
		t.Fatalf("out=%q", out)
	}
}

func TestGenerateUpstreamStatusError(t *testing.T) {
	httpClient := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusTooManyRequests,
				Body:       io.NopCloser(bytes.NewReader([]byte("rate limited"))),
			}, nil
		}),
	}

	c, err := NewWithHTTPClient(testEngineConfig(), httpClient)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}

	_, err = c.Generate(context.Background(), "프롬프트")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err=%v, want *UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status=%d", upstream.StatusCode)
	}
	if upstream.Body != "rate limited" {
		t.Fatalf("body=%q", upstream.Body)
	}
}

func TestGenerateTransportError(t *testing.T) {
	httpClient := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}

	c, err := NewWithHTTPClient(testEngineConfig(), httpClient)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}

	_, err = c.Generate(context.Background(), "프롬프트")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err=%v, want *UpstreamError", err)
	}
	if upstream.StatusCode != 0 {
		t.Fatalf("status=%d, transport failures carry no HTTP status", upstream.StatusCode)
	}
}

func TestGenerateMalformedResponse(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{"choices": [`},
		{"no choices", `{"choices": []}`},
		{"empty content", `{"choices": [{"message": {"content": "   "}}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			httpClient := &http.Client{
				Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
					return &http.Response{
						StatusCode: http.StatusOK,
						Body:       io.NopCloser(bytes.NewReader([]byte(tc.body))),
					}, nil
				}),
			}
			c, err := NewWithHTTPClient(testEngineConfig(), httpClient)
			if err != nil {
				t.Fatalf("NewWithHTTPClient: %v", err)
			}
			_, err = c.Generate(context.Background(), "프롬프트")
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("err=%v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	c, err := NewWithHTTPClient(testEngineConfig(), &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			t.Fatal("no request should be sent for an empty prompt")
			return nil, nil
		}),
	})
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	if _, err := c.Generate(context.Background(), "   "); err == nil {
		t.Fatal("expected error")
	}
}
