package summarizer_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"placebrief/internal/places"
	"placebrief/internal/summarizer"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go/v3/option"
)

const validArguments = `{"overview":"Quiet area with good schools","highlights":["Top rated academy"],"bestFor":["Families"],"rating":4}`

func completionWithArguments(arguments string) string {
	encoded, _ := json.Marshal(arguments)

	return `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [
    {
      "index": 0,
      "finish_reason": "tool_calls",
      "message": {
        "role": "assistant",
        "content": null,
        "refusal": null,
        "tool_calls": [
          {
            "id": "call_1",
            "type": "function",
            "function": {"name": "analyze_location", "arguments": ` + string(encoded) + `}
          }
        ]
      },
      "logprobs": null
    }
  ]
}`
}

func newTestSummarizer(t *testing.T, handler http.HandlerFunc) (*summarizer.OpenAISummarizer, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := summarizer.NewOpenAISummarizer("test-key", "", option.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("create summarizer: %v", err)
	}

	return s, srv
}

func academy() []places.Place {
	return []places.Place{
		{
			ID:          "a",
			DisplayName: places.LocalizedText{Text: "Mountain View Academy"},
			GenerativeSummary: &places.GenerativeSummary{
				Overview: &places.LocalizedText{Text: "A top school"},
			},
		},
	}
}

func TestOpenAISummarizerForcesAnalyzeLocationTool(t *testing.T) {
	var body map[string]any

	s, _ := newTestSummarizer(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionWithArguments(validArguments))
	})

	summary, err := s.Summarize(context.Background(), academy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &summarizer.LocationSummary{
		Overview:   "Quiet area with good schools",
		Highlights: []string{"Top rated academy"},
		BestFor:    []string{"Families"},
		Rating:     4,
	}
	if !reflect.DeepEqual(summary, want) {
		t.Fatalf("summary mismatch:\n got %+v\nwant %+v", summary, want)
	}

	if body["model"] != summarizer.DefaultModel {
		t.Fatalf("unexpected model: %v", body["model"])
	}

	responseFormat, _ := body["response_format"].(map[string]any)
	if responseFormat["type"] != "json_object" {
		t.Fatalf("unexpected response format: %v", body["response_format"])
	}

	toolChoice, _ := body["tool_choice"].(map[string]any)
	choiceFunction, _ := toolChoice["function"].(map[string]any)
	if choiceFunction["name"] != summarizer.AnalyzeLocationTool {
		t.Fatalf("expected forced tool choice, got %v", body["tool_choice"])
	}

	tools, _ := body["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("expected exactly one tool, got %v", body["tools"])
	}
	tool, _ := tools[0].(map[string]any)
	function, _ := tool["function"].(map[string]any)
	if function["name"] != summarizer.AnalyzeLocationTool {
		t.Fatalf("unexpected tool: %v", tool)
	}

	params, err := summarizer.ToolParameters()
	if err != nil {
		t.Fatalf("tool parameters: %v", err)
	}
	if !reflect.DeepEqual(function["parameters"], any(params)) {
		t.Fatalf("advertised parameters differ from schema:\n got %v\nwant %v", function["parameters"], params)
	}

	messages, _ := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %v", body["messages"])
	}
	system, _ := messages[0].(map[string]any)
	user, _ := messages[1].(map[string]any)
	if system["role"] != "system" || user["role"] != "user" {
		t.Fatalf("unexpected roles: %v / %v", system["role"], user["role"])
	}
	if content, _ := user["content"].(string); !strings.Contains(content, "Mountain View Academy") {
		t.Fatalf("user message is missing the prompt: %v", user["content"])
	}
}

func TestOpenAISummarizerRejectsInvalidArguments(t *testing.T) {
	cases := map[string]string{
		"missing rating":  `{"overview":"ok","highlights":[],"bestFor":[]}`,
		"rating too high": `{"overview":"ok","highlights":[],"bestFor":[],"rating":9}`,
		"malformed JSON":  `{"overview":`,
	}

	for name, arguments := range cases {
		s, _ := newTestSummarizer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, completionWithArguments(arguments))
		})

		if summary, err := s.Summarize(context.Background(), academy()); err == nil {
			t.Fatalf("%s: expected error, got %+v", name, summary)
		}
	}
}

func TestOpenAISummarizerDoesNotRetry(t *testing.T) {
	var calls atomic.Int32

	s, _ := newTestSummarizer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error": {"message": "boom", "type": "server_error"}}`)
	})

	if _, err := s.Summarize(context.Background(), academy()); err == nil {
		t.Fatalf("expected error")
	}

	if n := calls.Load(); n != 1 {
		t.Fatalf("expected a single attempt, got %d", n)
	}
}

func TestOpenAISummarizerEmptyInput(t *testing.T) {
	var calls atomic.Int32

	s, _ := newTestSummarizer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	})

	if _, err := s.Summarize(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if n := calls.Load(); n != 0 {
		t.Fatalf("expected no request, got %d", n)
	}
}

func TestNewOpenAISummarizerRequiresAPIKey(t *testing.T) {
	if _, err := summarizer.NewOpenAISummarizer("  ", ""); err == nil {
		t.Fatalf("expected error for empty API key")
	}
}
