package chat

import "encoding/json"

// --------------------------
// Stream aggregation helpers
// --------------------------

// FragmentAggregator buffers streamed text and emits each complete top-level
// JSON value it frames. Transports feed it raw payload fragments as they
// arrive; a chunk object split across network reads is held until its closing
// delimiter shows up.
//
// It emits *incremental* values only, never the full accumulated buffer, so
// previously emitted data is not duplicated.
type FragmentAggregator struct {
	buffer []rune
}

// NewFragmentAggregator constructs a FragmentAggregator.
func NewFragmentAggregator() *FragmentAggregator {
	return &FragmentAggregator{
		buffer: make([]rune, 0, 256),
	}
}

// Append adds a new streamed fragment and returns zero or more complete JSON
// values, depending on what the buffer now holds.
func (a *FragmentAggregator) Append(chunk string) []string {
	if chunk == "" {
		return nil
	}
	a.buffer = append(a.buffer, []rune(chunk)...)
	return a.collectJSONValues()
}

// AppendEvents frames complete JSON values from the fragment and decodes each
// into a ChunkEvent. Values that fail to decode surface the error; values
// already emitted are not re-parsed.
func (a *FragmentAggregator) AppendEvents(chunk string) ([]ChunkEvent, error) {
	values := a.Append(chunk)
	if len(values) == 0 {
		return nil, nil
	}
	events := make([]ChunkEvent, 0, len(values))
	for _, v := range values {
		var ev ChunkEvent
		if err := json.Unmarshal([]byte(v), &ev); err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// Final flushes any remaining buffered data when the stream ends. It first
// emits any complete values, then the tail (which may be incomplete JSON or
// noise) so downstream can surface errors.
func (a *FragmentAggregator) Final() []string {
	if len(a.buffer) == 0 {
		return nil
	}
	out := a.collectJSONValues()
	if len(a.buffer) == 0 {
		return out
	}
	out = append(out, string(a.buffer))
	a.buffer = a.buffer[:0]
	return out
}

// collectJSONValues emits each complete top-level JSON value found in the
// buffer, using brace/bracket nesting with string handling for framing.
//
// Behavior:
//   - Leading noise before the next '{' or '[' is discarded.
//   - Multiple values in the same buffer are emitted one by one.
//   - An incomplete value stays buffered until more data arrives (or until
//     Final() flushes the tail).
func (a *FragmentAggregator) collectJSONValues() []string {
	var out []string

	for {
		if len(a.buffer) == 0 {
			return out
		}

		// Find the next '{' or '['; discard anything before it.
		start := -1
		for i, r := range a.buffer {
			if r == '{' || r == '[' {
				start = i
				break
			}
		}
		if start == -1 {
			a.buffer = a.buffer[:0]
			return out
		}
		if start > 0 {
			a.buffer = a.buffer[start:]
		}

		stack := make([]rune, 0, 8)
		stack = append(stack, a.buffer[0])

		inString := false
		escaped := false
		end := -1

		for i := 1; i < len(a.buffer); i++ {
			r := a.buffer[i]

			if inString {
				if escaped {
					escaped = false
					continue
				}
				switch r {
				case '\\':
					escaped = true
				case '"':
					inString = false
				}
				continue
			}

			switch r {
			case '"':
				inString = true

			case '{', '[':
				stack = append(stack, r)

			case '}', ']':
				if len(stack) == 0 {
					// Invalid framing; stop and let downstream handle the tail.
					return out
				}
				top := stack[len(stack)-1]
				if (r == '}' && top != '{') || (r == ']' && top != '[') {
					return out
				}
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					end = i + 1
				}
			}
			if end != -1 {
				break
			}
		}

		if end == -1 {
			// Incomplete value; wait for more data.
			return out
		}

		out = append(out, string(a.buffer[:end]))
		a.buffer = a.buffer[end:]
	}
}
