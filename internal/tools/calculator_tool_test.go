package tools

import (
	"context"
	"testing"
)

func TestCalculatorTool_Operations(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "add",
			args: map[string]any{"a": float64(3), "b": float64(5), "operation": "add"},
			want: "8",
		},
		{
			name: "subtract",
			args: map[string]any{"a": float64(3), "b": float64(5), "operation": "subtract"},
			want: "-2",
		},
		{
			name: "multiply",
			args: map[string]any{"a": float64(4), "b": float64(2.5), "operation": "multiply"},
			want: "10",
		},
		{
			name: "divide",
			args: map[string]any{"a": float64(7), "b": float64(2), "operation": "divide"},
			want: "3.5",
		},
		{
			name: "operation is case-insensitive",
			args: map[string]any{"a": float64(1), "b": float64(1), "operation": "ADD"},
			want: "2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculatorTool{}.Execute(context.Background(), tt.args)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if result.IsError {
				t.Fatalf("unexpected error result: %q", result.Output)
			}
			if result.Output != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, result.Output)
			}
		})
	}
}

func TestCalculatorTool_DivisionByZero(t *testing.T) {
	for _, a := range []float64{-3, 0, 1, 1e9} {
		result, err := CalculatorTool{}.Execute(context.Background(), map[string]any{
			"a": a, "b": float64(0), "operation": "divide",
		})
		if err != nil {
			t.Fatalf("division by zero must not be a Go error, got %v", err)
		}
		if !result.IsError || result.Output != "Error: Division by zero" {
			t.Fatalf("expected division-by-zero error result, got %+v", result)
		}
	}
}

func TestCalculatorTool_InvalidOperation(t *testing.T) {
	result, err := CalculatorTool{}.Execute(context.Background(), map[string]any{
		"a": float64(1), "b": float64(2), "operation": "modulo",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsError || result.Output != "Error: Invalid operation" {
		t.Fatalf("expected invalid-operation error result, got %+v", result)
	}
}

func TestCalculatorTool_BadArguments(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing a", args: map[string]any{"b": float64(1), "operation": "add"}},
		{name: "non-numeric b", args: map[string]any{"a": float64(1), "b": "two", "operation": "add"}},
		{name: "missing operation", args: map[string]any{"a": float64(1), "b": float64(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (CalculatorTool{}).Execute(context.Background(), tt.args); err == nil {
				t.Fatalf("expected argument error")
			}
		})
	}
}
