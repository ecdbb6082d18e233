package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chatrelay-ai/chatrelay/internal/weather"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(CalculatorTool{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, ok := r.Lookup("calculator"); !ok {
		t.Fatalf("expected calculator to be registered")
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Fatalf("expected lookup miss for unknown tool")
	}
}

func TestRegistry_RejectsDuplicatesAndNil(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); err == nil {
		t.Fatalf("expected error for nil tool")
	}
	if err := r.Register(CalculatorTool{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(CalculatorTool{}); err == nil {
		t.Fatalf("expected error for duplicate registration")
	}
}

func TestRegistry_ToolDefinitionsStableOrder(t *testing.T) {
	svc := weather.NewService(weather.NewClient("k"), weather.NewMemoryCache(time.Minute))
	r, err := NewDefaultRegistry(t.TempDir(), svc)
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}

	defs := r.ToolDefinitions()
	want := []string{"calculator", "get_cache_stats", "get_weather", "read_file"}
	if len(defs) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(defs))
	}
	for i, name := range want {
		if defs[i].Name != name {
			t.Fatalf("expected tool %q at index %d, got %q", name, i, defs[i].Name)
		}
		if defs[i].Description == "" || defs[i].Parameters == nil {
			t.Fatalf("tool %q missing description or schema", name)
		}
	}
}

type failingTool struct{}

func (failingTool) Name() string           { return "failing" }
func (failingTool) Description() string    { return "always fails" }
func (failingTool) Schema() map[string]any { return map[string]any{"type": "object"} }
func (failingTool) Execute(context.Context, map[string]any) (*ToolResult, error) {
	return nil, errors.New("boom")
}

func TestInvoke_PropagatesResultAndError(t *testing.T) {
	ctx := context.Background()

	result, err := Invoke(ctx, CalculatorTool{}, map[string]any{
		"a": float64(3), "b": float64(5), "operation": "add",
	})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if result.Output != "8" {
		t.Fatalf("unexpected output: %q", result.Output)
	}

	if _, err := Invoke(ctx, failingTool{}, nil); err == nil {
		t.Fatalf("expected error from failing tool")
	}
}
