package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIProviderChat_RequestAndResponse(t *testing.T) {
	var gotAuth string
	var gotReq map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices":[
				{
					"message":{
						"role":"assistant",
						"content":"",
						"tool_calls":[
							{
								"id":"call_1",
								"type":"function",
								"function":{
									"name":"calculator",
									"arguments":"{\"a\":3,\"b\":5,\"operation\":\"add\"}"
								}
							}
						]
					}
				}
			],
			"usage":{"prompt_tokens":11,"completion_tokens":7,"total_tokens":18}
		}`))
	}))
	defer srv.Close()

	p, err := newOpenAIProviderForTest("test-key", "gpt-4.1-mini", 4096, srv.URL+"/chat/completions", srv.Client())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	resp, err := p.Chat(context.Background(), ChatRequest{
		SystemPrompt: "be concise",
		Messages: []ChatMessage{
			{Role: RoleUser, Content: "add 3 and 5"},
		},
		Tools: []ToolDefinition{
			{
				Name:        "calculator",
				Description: "Do math",
				Parameters:  map[string]any{"type": "object"},
			},
		},
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotReq["model"] != "gpt-4.1-mini" {
		t.Fatalf("unexpected model in request: %#v", gotReq["model"])
	}
	msgs, ok := gotReq["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected system + user message, got %#v", gotReq["messages"])
	}

	if len(resp.ToolCalls) != 1 {
		t.Fatalf("expected one tool call, got %d", len(resp.ToolCalls))
	}
	call := resp.ToolCalls[0]
	if call.ID != "call_1" || call.Name != "calculator" {
		t.Fatalf("unexpected tool call: %+v", call)
	}
	if resp.Usage.TotalTokens != 18 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
}

func TestOpenAIProviderChat_ModelOverride(t *testing.T) {
	var gotModel string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotModel, _ = req["model"].(string)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}],"usage":{}}`))
	}))
	defer srv.Close()

	p, err := newOpenAIProviderForTest("k", "default-model", 0, srv.URL+"/chat/completions", srv.Client())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	if _, err := p.Chat(context.Background(), ChatRequest{
		Model:    "rotated-model",
		Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}},
	}); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if gotModel != "rotated-model" {
		t.Fatalf("expected per-request model override, got %q", gotModel)
	}
}

func TestOpenAIProviderChat_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := newOpenAIProviderForTest("k", "m", 0, srv.URL+"/chat/completions", srv.Client())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	if _, err := p.Chat(context.Background(), ChatRequest{
		Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}},
	}); err == nil {
		t.Fatalf("expected error for non-2xx upstream response")
	}
}

func TestToOpenAIMessages_ToolHistory(t *testing.T) {
	msgs := toOpenAIMessages([]ChatMessage{
		{Role: RoleUser, Content: "add 3 and 5"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_1", Name: "calculator", Arguments: `{"a":3}`}}},
		{Role: RoleTool, ToolCallID: "call_1", Content: "8"},
	})

	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if len(msgs[1].ToolCalls) != 1 || msgs[1].ToolCalls[0].Function.Name != "calculator" {
		t.Fatalf("assistant tool calls not preserved: %+v", msgs[1])
	}
	if msgs[2].ToolCallID != "call_1" {
		t.Fatalf("tool message missing tool_call_id: %+v", msgs[2])
	}
}
