package provider

import (
	"errors"
	"sync/atomic"
)

// Rotator hands out model identifiers round-robin, one per chat request.
// It is safe for concurrent use.
type Rotator struct {
	models  []string
	counter atomic.Uint64
}

// NewRotator builds a rotator over a non-empty ordered model list.
func NewRotator(models []string) (*Rotator, error) {
	if len(models) == 0 {
		return nil, errors.New("at least one model is required")
	}
	for _, m := range models {
		if m == "" {
			return nil, errors.New("model identifiers cannot be empty")
		}
	}
	out := make([]string, len(models))
	copy(out, models)
	return &Rotator{models: out}, nil
}

// Next returns the next model identifier in rotation order. The n-th call
// (1-indexed) returns models[(n-1) mod len(models)].
func (r *Rotator) Next() string {
	n := r.counter.Add(1)
	return r.models[(n-1)%uint64(len(r.models))]
}

// Models returns the rotation list in order.
func (r *Rotator) Models() []string {
	out := make([]string, len(r.models))
	copy(out, r.models)
	return out
}
