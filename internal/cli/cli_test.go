package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CHATRELAY_HOME", t.TempDir())

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "chatrelay dev (unknown)") {
		t.Fatalf("unexpected version output: %q", out)
	}
}

func TestConfigCommandPrintsMergedTOML(t *testing.T) {
	out, err := execute(t, "", "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{":8080", "max_iterations = 10", "gpt-4.1-mini"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in config output, got:\n%s", want, out)
		}
	}
}

func TestRootShowsHelp(t *testing.T) {
	out, err := execute(t, "")
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	for _, sub := range []string{"serve", "tools", "chat", "config", "version"} {
		if !strings.Contains(out, sub) {
			t.Fatalf("expected subcommand %q in help output:\n%s", sub, out)
		}
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	_, err := execute(t, "", "bogus")
	if err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestChatREPL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"response":    "The result is 8.",
			"request_id":  "req-1",
			"duration_ms": 12,
			"model":       "gpt-4.1-mini",
		})
	}))
	defer ts.Close()

	out, err := execute(t, "add 3 and 5\nexit\n", "chat", "--url", ts.URL)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(out, "assistant> The result is 8.") {
		t.Fatalf("expected assistant reply in output:\n%s", out)
	}
	if !strings.Contains(out, "request_id=req-1") {
		t.Fatalf("expected request id meta line in output:\n%s", out)
	}
}

func TestChatREPLServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "max iterations exceeded (10)", "request_id": "req-2"})
	}))
	defer ts.Close()

	out, err := execute(t, "loop forever\n", "chat", "--url", ts.URL)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(out, "max iterations exceeded") {
		t.Fatalf("expected server error surfaced in output:\n%s", out)
	}
}
