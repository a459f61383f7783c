package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/benoit-pereira-da-silva/textual/pkg/textual"

	"github.com/benoit-pereira-da-silva/funcall/pkg/funcall"
	"github.com/benoit-pereira-da-silva/funcall/pkg/funcall/models"
)

// Request is the outbound chat-completion payload.
// https://platform.openai.com/docs/api-reference/chat
//
// Optional sampling parameters are pass-through fields: their valid ranges
// are documented below but NOT enforced at construction. The remote service
// is the authority on rejecting out-of-range values.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`

	// Temperature, between 0 and 2.
	Temperature *float64 `json:"temperature,omitempty"`

	// TopP is the nucleus sampling probability mass.
	TopP *float64 `json:"top_p,omitempty"`

	// N is the number of candidate completions.
	N *int `json:"n,omitempty"`

	// Stop sequences, up to 4.
	Stop []string `json:"stop,omitempty"`

	MaxTokens *int `json:"max_tokens,omitempty"`

	// PresencePenalty and FrequencyPenalty, between -2.0 and 2.0.
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`

	// LogitBias maps token ids to a bias between -100 and 100.
	LogitBias map[string]float64 `json:"logit_bias,omitempty"`

	// User is an end-user identifier for abuse monitoring.
	User *string `json:"user,omitempty"`

	// stream is write-once and owned by the transport layer, see MarkStreaming.
	stream    bool
	streamSet bool

	// Listeners
	mu       sync.Mutex
	callBack map[ChunkEventType]func(e ChunkEvent) textual.StringCarrier
}

// NewRequest builds a validated request.
//
// It fails with funcall.ErrInvalidArgument when model is empty or outside the
// supported chat-completion family, and with funcall.ErrMissingArgument when
// messages is empty. No other parameter is validated here.
func NewRequest(model string, messages []Message) (*Request, error) {
	if strings.TrimSpace(model) == "" || !models.InChatFamily(models.ModelID(model)) {
		return nil, fmt.Errorf("chat: model %q is not in the %q family: %w", model, models.ChatFamily, funcall.ErrInvalidArgument)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("chat: at least one message is required: %w", funcall.ErrMissingArgument)
	}
	return &Request{
		Model:    model,
		Messages: messages,
		callBack: make(map[ChunkEventType]func(e ChunkEvent) textual.StringCarrier),
	}, nil
}

func (r *Request) WithTemperature(t float64) *Request {
	r.Temperature = funcall.Float64Ptr(t)
	return r
}

func (r *Request) WithTopP(p float64) *Request {
	r.TopP = funcall.Float64Ptr(p)
	return r
}

func (r *Request) WithN(n int) *Request {
	r.N = funcall.IntPtr(n)
	return r
}

func (r *Request) WithStop(stop ...string) *Request {
	r.Stop = stop
	return r
}

func (r *Request) WithMaxTokens(n int) *Request {
	r.MaxTokens = funcall.IntPtr(n)
	return r
}

func (r *Request) WithPresencePenalty(p float64) *Request {
	r.PresencePenalty = funcall.Float64Ptr(p)
	return r
}

func (r *Request) WithFrequencyPenalty(p float64) *Request {
	r.FrequencyPenalty = funcall.Float64Ptr(p)
	return r
}

func (r *Request) WithLogitBias(bias map[string]float64) *Request {
	r.LogitBias = bias
	return r
}

func (r *Request) WithUser(user string) *Request {
	r.User = funcall.StringPtr(user)
	return r
}

// MarkStreaming sets the streaming flag. It is write-once and intended for
// the transport layer only; callers never set it directly. A second call is
// a no-op.
func (r *Request) MarkStreaming() {
	if r.streamSet {
		return
	}
	r.stream = true
	r.streamSet = true
}

// Streaming reports whether the transport marked this request as streamed.
func (r *Request) Streaming() bool {
	return r.stream
}

func (r *Request) Validate() error {
	if !models.InChatFamily(models.ModelID(r.Model)) {
		return fmt.Errorf("chat: model %q is not in the %q family: %w", r.Model, models.ChatFamily, funcall.ErrInvalidArgument)
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("chat: at least one message is required: %w", funcall.ErrMissingArgument)
	}
	return nil
}

// requestJSON is the wire shape; it exists so the unexported streaming flag
// and the listener state stay out of the serialized form.
type requestJSON struct {
	Model            string             `json:"model"`
	Messages         []Message          `json:"messages"`
	Temperature      *float64           `json:"temperature,omitempty"`
	TopP             *float64           `json:"top_p,omitempty"`
	N                *int               `json:"n,omitempty"`
	Stream           bool               `json:"stream,omitempty"`
	Stop             []string           `json:"stop,omitempty"`
	MaxTokens        *int               `json:"max_tokens,omitempty"`
	PresencePenalty  *float64           `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64           `json:"frequency_penalty,omitempty"`
	LogitBias        map[string]float64 `json:"logit_bias,omitempty"`
	User             *string            `json:"user,omitempty"`
}

func (r *Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(requestJSON{
		Model:            r.Model,
		Messages:         r.Messages,
		Temperature:      r.Temperature,
		TopP:             r.TopP,
		N:                r.N,
		Stream:           r.stream,
		Stop:             r.Stop,
		MaxTokens:        r.MaxTokens,
		PresencePenalty:  r.PresencePenalty,
		FrequencyPenalty: r.FrequencyPenalty,
		LogitBias:        r.LogitBias,
		User:             r.User,
	})
}

func (r *Request) AddListener(eventName ChunkEventType, f func(e ChunkEvent) textual.StringCarrier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.callBack == nil {
		r.callBack = make(map[ChunkEventType]func(e ChunkEvent) textual.StringCarrier)
	}
	if _, ok := r.callBack[eventName]; ok {
		return errors.New("duplicate listener call back")
	}
	r.callBack[eventName] = f
	return nil
}

func (r *Request) RemoveListener(eventName ChunkEventType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.callBack[eventName]; ok {
		delete(r.callBack, eventName)
		return nil
	}
	return fmt.Errorf("listener %s not found", eventName)
}

func (r *Request) RemoveListeners() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for eventName := range r.callBack {
		delete(r.callBack, eventName)
	}
}

// Transcoder routes classified chunk events to the registered listeners,
// re-emitting their carriers downstream.
func (r *Request) Transcoder() textual.TranscoderFunc[textual.JsonGenericCarrier[ChunkEvent], textual.StringCarrier] {
	return func(ctx context.Context, in <-chan textual.JsonGenericCarrier[ChunkEvent]) <-chan textual.StringCarrier {
		return textual.AsyncEmitter(ctx, in, func(ctx context.Context, c textual.JsonGenericCarrier[ChunkEvent], emit func(s textual.StringCarrier)) {
			ev := c.Value
			r.mu.Lock()
			defer r.mu.Unlock()
			if f, ok := r.callBack[ev.Type]; ok {
				emit(f(ev))
				return
			}
			if f, ok := r.callBack[AllChunkEvents]; ok {
				emit(f(ev))
			}
		})
	}
}
