package tools

import (
	"context"
	"errors"
	"io/fs"
	"os"
)

// ReadFileTool reads text files from the configured data directory. Paths
// whose resolved target lands outside that directory are rejected before the
// file is read.
type ReadFileTool struct {
	DataDir string
}

// Name returns the tool name.
func (t ReadFileTool) Name() string {
	return "read_file"
}

// Description returns the tool description for the model.
func (t ReadFileTool) Description() string {
	return "Read contents of a file from the data directory"
}

// Schema returns the JSON schema for read_file args.
func (t ReadFileTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"description": "Name of the file to read (must be in the data directory)",
			},
		},
		"required": []string{"filename"},
	}
}

// Execute reads the named file. Access and not-found failures are error
// results for the model, never Go errors.
func (t ReadFileTool) Execute(_ context.Context, args map[string]any) (*ToolResult, error) {
	filename, err := stringArg(args, "filename")
	if err != nil {
		return nil, err
	}

	path, err := resolveDataPath(t.DataDir, filename)
	if err != nil {
		return errorResult("Error: Access denied. File must be in the data directory."), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errorResult("Error: File '%s' not found in data directory.", filename), nil
		}
		return errorResult("Error reading file '%s': %v", filename, err), nil
	}

	return &ToolResult{Output: string(content)}, nil
}
