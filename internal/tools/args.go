package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("argument %q cannot be empty", key)
	}
	return s, nil
}

func numberArg(args map[string]any, key string) (float64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing required argument %q", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("argument %q must be a number", key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("argument %q must be a number", key)
	}
}

// resolveDataPath resolves input under dataDir and rejects any candidate
// whose resolved absolute path escapes it. Symlinks are followed before the
// containment check, so a link inside the data directory cannot point out of
// it. Missing files keep their cleaned path so callers can report not-found.
func resolveDataPath(dataDir, input string) (string, error) {
	if strings.TrimSpace(dataDir) == "" {
		return "", fmt.Errorf("data directory is required")
	}
	dataAbs, err := filepath.Abs(dataDir)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	// Normalize the root itself so symlinked temp dirs compare equal.
	if resolvedRoot, err := filepath.EvalSymlinks(dataAbs); err == nil {
		dataAbs = resolvedRoot
	}

	candidate := input
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(dataAbs, candidate)
	}
	candidate = filepath.Clean(candidate)

	resolved, err := filepath.EvalSymlinks(candidate)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		resolved = candidate
	default:
		return "", fmt.Errorf("resolve path: %w", err)
	}

	rel, err := filepath.Rel(dataAbs, resolved)
	if err != nil {
		return "", fmt.Errorf("resolve relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q is outside the data directory", input)
	}
	return resolved, nil
}
