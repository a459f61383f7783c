package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// fragmentBuffer accumulates raw text fragments of a JSON value streamed
// across multiple response chunks, and parses the accumulated text on first
// read. The parsed value is cached; a later append invalidates the cache so
// the next read re-parses the full accumulated text.
//
// fragmentBuffer is not safe for concurrent use. A descriptor is owned by a
// single conversation turn.
type fragmentBuffer struct {
	fragments []string
	parsed    any
	hasValue  bool
}

// Append adds a raw text fragment. Any previously cached parse result is
// discarded.
func (b *fragmentBuffer) Append(s string) {
	if s == "" {
		return
	}
	b.fragments = append(b.fragments, s)
	b.parsed = nil
	b.hasValue = false
}

// Empty reports whether no text has been accumulated yet.
func (b *fragmentBuffer) Empty() bool {
	for _, f := range b.fragments {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Text returns the accumulated raw text.
func (b *fragmentBuffer) Text() string {
	switch len(b.fragments) {
	case 0:
		return ""
	case 1:
		return b.fragments[0]
	default:
		joined := strings.Join(b.fragments, "")
		b.fragments = []string{joined}
		return joined
	}
}

// Value parses the accumulated text as a single JSON value and caches the
// result. Numbers are decoded as json.Number so integral arguments survive
// the round trip untouched.
func (b *fragmentBuffer) Value() (any, error) {
	if b.hasValue {
		return b.parsed, nil
	}
	text := strings.TrimSpace(b.Text())
	if text == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("dispatch: parse accumulated fragments: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("dispatch: accumulated fragments hold more than one JSON value")
	}
	b.parsed = v
	b.hasValue = true
	return v, nil
}
