package dispatch

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"

	"github.com/benoit-pereira-da-silva/funcall/pkg/funcall"
)

// namePattern is the shape the remote service accepts for function names.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// FunctionDescriptor is the data representation of a callable the remote
// service may request be invoked. Its identity is its name.
//
// Parameters and arguments may arrive as partial text fragments across
// multiple streamed chunks; each is accumulated in a staging buffer and
// parsed on first read. An append after a read invalidates the cached value,
// so the next read re-parses the full accumulated text.
//
// A descriptor lives and dies with its owning conversation turn and is not
// safe for concurrent use.
type FunctionDescriptor struct {
	name        string
	description string
	callID      string

	params fragmentBuffer
	args   fragmentBuffer

	// resolved schema cache, keyed by the parameters text it was built from.
	resolved     *jsonschema.Resolved
	resolvedText string
}

// NewDescriptor returns an empty descriptor, ready to be filled from an
// incoming response payload.
func NewDescriptor() *FunctionDescriptor {
	return &FunctionDescriptor{}
}

// NewDescriptorFrom returns a descriptor seeded from peer via CopyFrom.
func NewDescriptorFrom(peer *FunctionDescriptor) *FunctionDescriptor {
	d := NewDescriptor()
	d.CopyFrom(peer)
	return d
}

// NewNamedDescriptor returns a descriptor for name, with optional
// description, parameter schema text and argument text.
func NewNamedDescriptor(name, description, parameters, arguments string) (*FunctionDescriptor, error) {
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("dispatch: function name %q does not match %s: %w", name, namePattern, funcall.ErrInvalidArgument)
	}
	d := &FunctionDescriptor{
		name:        name,
		description: description,
	}
	d.params.Append(parameters)
	d.args.Append(arguments)
	return d, nil
}

// NewBoundDescriptor returns a descriptor for name and immediately registers
// the callable under that name in reg. The callable is not invoked.
func NewBoundDescriptor(reg *Registry, name, description, parameters string, c *Callable) (*FunctionDescriptor, error) {
	d, err := NewNamedDescriptor(name, description, parameters, "")
	if err != nil {
		return nil, err
	}
	if err := reg.Register(name, c); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *FunctionDescriptor) Name() string        { return d.name }
func (d *FunctionDescriptor) Description() string { return d.description }

// SetName assigns the descriptor's name. The name is immutable after first
// assignment; use CopyFrom to take a peer's name during streamed assembly.
func (d *FunctionDescriptor) SetName(name string) error {
	if d.name != "" {
		return fmt.Errorf("dispatch: name already assigned to %q: %w", d.name, funcall.ErrInvalidOperation)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("dispatch: function name %q does not match %s: %w", name, namePattern, funcall.ErrInvalidArgument)
	}
	d.name = name
	return nil
}

// SetDescription assigns the descriptor's description.
func (d *FunctionDescriptor) SetDescription(description string) {
	d.description = description
}

// CallID returns the correlation identifier for this call, generating one
// when none was supplied by the service.
func (d *FunctionDescriptor) CallID() string {
	if d.callID == "" {
		d.callID = uuid.NewString()
	}
	return d.callID
}

// AppendParameters appends a raw fragment of the parameter schema text.
func (d *FunctionDescriptor) AppendParameters(s string) {
	d.params.Append(s)
}

// AppendArguments appends a raw fragment of the argument value text.
func (d *FunctionDescriptor) AppendArguments(s string) {
	d.args.Append(s)
}

// HasParameters reports whether any parameter schema text has accumulated.
func (d *FunctionDescriptor) HasParameters() bool { return !d.params.Empty() }

// HasArguments reports whether any argument text has accumulated.
func (d *FunctionDescriptor) HasArguments() bool { return !d.args.Empty() }

// ParametersText returns the raw accumulated parameter schema text.
func (d *FunctionDescriptor) ParametersText() string { return d.params.Text() }

// ArgumentsText returns the raw accumulated argument text.
func (d *FunctionDescriptor) ArgumentsText() string { return d.args.Text() }

// Parameters parses the accumulated schema text into map form, as passed in
// provider requests.
func (d *FunctionDescriptor) Parameters() (map[string]any, error) {
	v, err := d.params.Value()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dispatch: parameters of %q are not a JSON object: %w", d.name, funcall.ErrInvalidArgument)
	}
	return m, nil
}

// Arguments parses the accumulated argument text into a JSON value.
func (d *FunctionDescriptor) Arguments() (any, error) {
	return d.args.Value()
}

// ArgumentsMap parses the accumulated argument text and requires it to be a
// JSON object mapping parameter names to values.
func (d *FunctionDescriptor) ArgumentsMap() (map[string]any, error) {
	v, err := d.args.Value()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dispatch: arguments of %q are not a JSON object: %w", d.name, funcall.ErrInvalidArgument)
	}
	return m, nil
}

// Schema parses the accumulated parameter text into a typed JSON schema and
// resolves it for validation. The resolved schema is cached against the text
// it was built from.
func (d *FunctionDescriptor) Schema() (*jsonschema.Resolved, error) {
	text := strings.TrimSpace(d.params.Text())
	if text == "" {
		return nil, nil
	}
	if d.resolved != nil && d.resolvedText == text {
		return d.resolved, nil
	}
	var s jsonschema.Schema
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("dispatch: parse parameter schema of %q: %w", d.name, err)
	}
	resolved, err := s.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true})
	if err != nil {
		return nil, fmt.Errorf("dispatch: resolve parameter schema of %q: %w", d.name, err)
	}
	d.resolved = resolved
	d.resolvedText = text
	return resolved, nil
}

// CopyFrom merges a peer descriptor into this one.
//
// The peer's name and description are taken only when non-empty; own values
// are never cleared. The peer's accumulated argument and parameter text is
// APPENDED to this descriptor's staging buffers rather than replacing them.
// This is how a function call assembled across multiple streamed response
// chunks accumulates its final argument JSON text.
func (d *FunctionDescriptor) CopyFrom(peer *FunctionDescriptor) {
	if peer == nil {
		return
	}
	if peer.name != "" {
		d.name = peer.name
	}
	if peer.description != "" {
		d.description = peer.description
	}
	if peer.callID != "" {
		d.callID = peer.callID
	}
	d.args.Append(peer.args.Text())
	d.params.Append(peer.params.Text())
}

// descriptorJSON is the wire representation of a function-call fragment.
// parameters and arguments may each arrive as a JSON string carrying partial
// text, or as a structured JSON value.
type descriptorJSON struct {
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Arguments   json.RawMessage `json:"arguments,omitempty"`
	CallID      string          `json:"call_id,omitempty"`
}

func (d *FunctionDescriptor) MarshalJSON() ([]byte, error) {
	out := descriptorJSON{
		Name:        d.name,
		Description: d.description,
		CallID:      d.callID,
	}
	out.Parameters = rawOrQuoted(d.params.Text())
	out.Arguments = rawOrQuoted(d.args.Text())
	return json.Marshal(out)
}

// UnmarshalJSON fills the descriptor from a wire fragment. Unlike parameter
// and argument text, a name arrives whole, so it is validated here like on
// every other name-supplying path.
func (d *FunctionDescriptor) UnmarshalJSON(data []byte) error {
	var in descriptorJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Name != "" {
		if !namePattern.MatchString(in.Name) {
			return fmt.Errorf("dispatch: function name %q does not match %s: %w", in.Name, namePattern, funcall.ErrInvalidArgument)
		}
		d.name = in.Name
	}
	if in.Description != "" {
		d.description = in.Description
	}
	if in.CallID != "" {
		d.callID = in.CallID
	}
	d.params.Append(rawFragmentText(in.Parameters))
	d.args.Append(rawFragmentText(in.Arguments))
	return nil
}

// rawOrQuoted emits text verbatim when it is a complete JSON value, otherwise
// as a JSON string so partial fragments survive serialization.
func rawOrQuoted(text string) json.RawMessage {
	if text == "" {
		return nil
	}
	if json.Valid([]byte(text)) {
		return json.RawMessage(text)
	}
	quoted, _ := json.Marshal(text)
	return quoted
}

// rawFragmentText extracts fragment text from a wire value: a JSON string is
// unquoted, anything else is kept as raw text.
func rawFragmentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
