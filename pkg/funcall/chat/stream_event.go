package chat

/*
ChunkEventType represents the semantic event types derived from chat
completion chunks when streaming is enabled.

Each streamed chunk carries a delta; the transport classifies it into one of
these types before handing it to the request's transcoder.

The stream is ordered and SHOULD be processed sequentially.
*/
type ChunkEventType string

const (

	// AllChunkEvents permits observing or listening to any ChunkEventType.
	AllChunkEvents ChunkEventType = "all"

	// ChunkContentDelta contains an incremental piece of assistant text.
	// The Delta field will be populated.
	ChunkContentDelta ChunkEventType = "chunk.content.delta"

	// ChunkFunctionCallDelta contains an incremental fragment of a function
	// call: a partial name and/or a partial arguments JSON text. Fragments
	// are merged into one descriptor via FunctionDescriptor.CopyFrom.
	ChunkFunctionCallDelta ChunkEventType = "chunk.function_call.delta"

	// ChunkDone signals that the stream finished; FinishReason is set.
	ChunkDone ChunkEventType = "chunk.done"

	// ChunkFailed indicates the stream terminated with an error.
	ChunkFailed ChunkEventType = "chunk.failed"
)

// FunctionCallDelta is the raw function-call fragment of one streamed chunk.
// Either field may be empty; Arguments is partial JSON text, not a complete
// value.
type FunctionCallDelta struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ChunkEvent is one classified streaming event.
type ChunkEvent struct {
	Type ChunkEventType `json:"type"`

	// Delta is the incremental assistant text for ChunkContentDelta.
	Delta string `json:"delta,omitempty"`

	// FunctionCall carries the fragment for ChunkFunctionCallDelta.
	FunctionCall *FunctionCallDelta `json:"function_call,omitempty"`

	// FinishReason is set on ChunkDone ("stop", "function_call", "length").
	FinishReason string `json:"finish_reason,omitempty"`

	// Message carries error or informational text.
	Message string `json:"message,omitempty"`
}
