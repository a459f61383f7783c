package chat

import (
	"fmt"

	"github.com/benoit-pereira-da-silva/textual/pkg/textual"
)

// StringCarrierFrom converts a JsonGenericCarrier containing a ChunkEvent into a StringCarrier.
// It maps the Index and Error fields directly and sets the Value field.
func StringCarrierFrom(c textual.JsonGenericCarrier[ChunkEvent]) textual.StringCarrier {
	s := textual.StringCarrier{
		Index: c.Index,
		Error: c.Error,
	}
	ev := c.Value

	switch ev.Type {
	case ChunkContentDelta:
		s.Value = ev.Delta
	case ChunkFunctionCallDelta:
		// Function-call fragments are merged by the caller via
		// FunctionDescriptor.CopyFrom; the carrier stays textual.
		if ev.FunctionCall != nil {
			s.Value = ev.FunctionCall.Arguments
		}
	case ChunkFailed:
		s.Value = ev.Message
		s = s.WithError(fmt.Errorf("\neventType: %s error: %s", ev.Type, ev.Message))
	default:
		if ev.Message != "" {
			s.Value = ev.Message
		}
	}
	return s
}
