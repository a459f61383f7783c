package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/benoit-pereira-da-silva/funcall/pkg/funcall"
)

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithExecutor sets the serial execution context asynchronous dispatch hops
// onto. Required for InvokeAsync.
func WithExecutor(exec *Executor) DispatcherOption {
	return func(d *Dispatcher) { d.exec = exec }
}

// WithSchemaValidation validates caller-supplied arguments against the
// descriptor's resolved JSON schema before binding. The historical behavior
// performs no schema validation beyond shape checks; this is a documented
// superset and is off by default.
func WithSchemaValidation() DispatcherOption {
	return func(d *Dispatcher) { d.validateSchema = true }
}

// WithDispatchLogger routes dispatcher debug logging to the provided logger.
func WithDispatchLogger(logger *log.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// Dispatcher resolves a function descriptor to a concrete callable, binds its
// arguments and invokes it, shaping the result into the JSON string fed back
// into the conversation.
type Dispatcher struct {
	registry       *Registry
	exec           *Executor
	logger         *log.Logger
	validateSchema bool
}

// NewDispatcher returns a dispatcher resolving against reg.
func NewDispatcher(reg *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Invoke resolves and invokes fd synchronously on the calling goroutine.
//
// A callable returning nil yields the empty string; any other result is
// wrapped as {"result":<value>} and serialized. Binding and invocation
// failures propagate to the caller unmodified.
func (d *Dispatcher) Invoke(ctx context.Context, fd *FunctionDescriptor) (string, error) {
	out, err := d.resolveAndInvoke(ctx, fd)
	if err != nil {
		return "", err
	}
	return shapeResult(out)
}

// InvokeAsync suspends until the dispatcher's executor picks the call up,
// then binds arguments and invokes there. The callable must return a Future;
// the result is awaited under ctx. Cancellation during the await aborts the
// wait and propagates, it does not retroactively stop the invoked function.
func (d *Dispatcher) InvokeAsync(ctx context.Context, fd *FunctionDescriptor) (string, error) {
	if d.exec == nil {
		return "", fmt.Errorf("dispatch: no executor configured for asynchronous dispatch: %w", funcall.ErrInvalidOperation)
	}

	var (
		fut      Future
		innerErr error
	)
	// Argument resolution happens after the hop and before invocation, so
	// callables may touch state affine to the executor goroutine.
	err := d.exec.Do(ctx, func() {
		out, err := d.resolveAndInvoke(ctx, fd)
		if err != nil {
			innerErr = err
			return
		}
		f, ok := out.(Future)
		if !ok {
			innerErr = fmt.Errorf("dispatch: %q did not return a pending computation: %w", fd.Name(), funcall.ErrInvalidOperation)
			return
		}
		fut = f
	})
	if err != nil {
		return "", err
	}
	if innerErr != nil {
		return "", innerErr
	}

	out, err := fut.Await(ctx)
	if err != nil {
		return "", err
	}
	return shapeResult(out)
}

// resolveAndInvoke performs the pre-invocation checks in order: argument
// presence, name resolution, argument deserialization, binding, invocation.
func (d *Dispatcher) resolveAndInvoke(ctx context.Context, fd *FunctionDescriptor) (any, error) {
	if fd.HasParameters() && !fd.HasArguments() {
		return nil, fmt.Errorf("dispatch: %q declares parameters but caller supplied none: %w", fd.Name(), funcall.ErrInvalidArgument)
	}

	c, err := d.registry.Resolve(fd.Name())
	if err != nil {
		return nil, err
	}

	args, err := fd.ArgumentsMap()
	if err != nil {
		return nil, err
	}

	if d.validateSchema {
		if err := d.validateArguments(fd); err != nil {
			return nil, err
		}
	}

	bound, err := bindArguments(ctx, c, args)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("invoking function", "name", fd.Name(), "call_id", fd.CallID(), "args", len(bound))
	return c.Fn(bound)
}

func (d *Dispatcher) validateArguments(fd *FunctionDescriptor) error {
	resolved, err := fd.Schema()
	if err != nil {
		return err
	}
	if resolved == nil {
		return nil
	}
	text := strings.TrimSpace(fd.ArgumentsText())
	if text == "" {
		return nil
	}
	// The validator classifies json.Number as a string, so the validation
	// pass decodes the argument text with default number handling; binding
	// keeps the UseNumber map.
	var instance any
	if err := json.Unmarshal([]byte(text), &instance); err != nil {
		return fmt.Errorf("dispatch: parse arguments of %q for validation: %w", fd.Name(), err)
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("dispatch: arguments of %q rejected by schema: %w", fd.Name(), err)
	}
	return nil
}

// bindArguments binds each formal parameter of c, in declaration order.
func bindArguments(ctx context.Context, c *Callable, args map[string]any) ([]any, error) {
	bound := make([]any, 0, len(c.Params))
	for _, p := range c.Params {
		switch {
		case p.Context:
			bound = append(bound, ctx)

		default:
			v, ok := args[p.Name]
			if !ok {
				if p.HasDefault {
					bound = append(bound, p.Default)
					continue
				}
				return nil, fmt.Errorf("dispatch: no value supplied for parameter %q: %w", p.Name, funcall.ErrMissingArgument)
			}
			if p.Enum != nil {
				if s, isText := v.(string); isText {
					member, found := p.Enum[s]
					if !found {
						return nil, fmt.Errorf("dispatch: %q is not a member of enum parameter %q: %w", s, p.Name, funcall.ErrInvalidArgument)
					}
					bound = append(bound, member)
					continue
				}
			}
			// Raw value; further coercion is deferred to the callable.
			bound = append(bound, v)
		}
	}
	return bound, nil
}

// resultEnvelope is the single-field container dispatch results are wrapped in.
type resultEnvelope struct {
	Result any `json:"result"`
}

// shapeResult serializes an invocation result: a nil result (the semantic
// "no value" marker) becomes the empty string, everything else becomes
// {"result":<value>}.
func shapeResult(out any) (string, error) {
	if out == nil {
		return "", nil
	}
	b, err := json.Marshal(resultEnvelope{Result: out})
	if err != nil {
		return "", fmt.Errorf("dispatch: serialize result: %w", err)
	}
	return string(b), nil
}
