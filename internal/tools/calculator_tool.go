package tools

import (
	"context"
	"strconv"
	"strings"
)

// CalculatorTool performs basic arithmetic on two operands.
type CalculatorTool struct{}

// Name returns the tool name.
func (t CalculatorTool) Name() string {
	return "calculator"
}

// Description returns the tool description for the model.
func (t CalculatorTool) Description() string {
	return "Perform basic arithmetic operations (add, subtract, multiply, divide)"
}

// Schema returns the JSON schema for calculator args.
func (t CalculatorTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{
				"type":        "number",
				"description": "First number",
			},
			"b": map[string]any{
				"type":        "number",
				"description": "Second number",
			},
			"operation": map[string]any{
				"type":        "string",
				"description": "Operation to perform (add, subtract, multiply, divide)",
				"enum":        []string{"add", "subtract", "multiply", "divide"},
			},
		},
		"required": []string{"a", "b", "operation"},
	}
}

// Execute runs the arithmetic. Division by zero and unknown operations are
// error results for the model, never Go errors.
func (t CalculatorTool) Execute(_ context.Context, args map[string]any) (*ToolResult, error) {
	a, err := numberArg(args, "a")
	if err != nil {
		return nil, err
	}
	b, err := numberArg(args, "b")
	if err != nil {
		return nil, err
	}
	operation, err := stringArg(args, "operation")
	if err != nil {
		return nil, err
	}

	var result float64
	switch strings.ToLower(operation) {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a * b
	case "divide":
		if b == 0 {
			return errorResult("Error: Division by zero"), nil
		}
		result = a / b
	default:
		return errorResult("Error: Invalid operation"), nil
	}

	return &ToolResult{Output: strconv.FormatFloat(result, 'f', -1, 64)}, nil
}
