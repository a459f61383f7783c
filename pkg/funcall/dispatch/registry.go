package dispatch

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/benoit-pereira-da-silva/funcall/pkg/funcall"
)

// Param describes one formal parameter of a registered callable, captured as
// data rather than recovered through runtime introspection.
type Param struct {
	// Name is the key looked up in the caller-supplied argument object.
	Name string

	// Enum, when non-nil, maps member names to member values. A textual
	// argument for this parameter is parsed as a member name.
	Enum map[string]any

	// Default is bound when the caller omits the argument. It is only
	// consulted when HasDefault is true, so a nil default stays expressible.
	Default    any
	HasDefault bool

	// Context marks the parameter as the invocation's cancellation token.
	// It is bound from the caller's context, never from the argument object.
	Context bool
}

// Callable wraps a concrete function together with its parameter metadata.
// Fn receives the bound arguments in declaration order. A callable eligible
// for asynchronous dispatch returns a Future.
type Callable struct {
	Name        string
	Description string
	Params      []Param
	Fn          func(args []any) (any, error)
}

// memberSeparator splits a qualified function name into a type qualifier and
// a member suffix, e.g. "Weather_Forecast_GetCurrent".
const memberSeparator = "_"

// Option configures a Registry.
type Option func(*Registry)

// KeyByQualifiedName caches resolved bindings under "Type.Member" instead of
// the bare function name. The historical behavior keys by bare name, so two
// distinct targets sharing a name collide in the cache; switch this on to
// avoid the collision.
func KeyByQualifiedName() Option {
	return func(r *Registry) { r.keyByQualified = true }
}

// WithLogger routes registry debug logging to the provided logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// Registry maps function names to callables for one host session. It replaces
// the ambient process-wide dispatch cache of earlier designs with an explicit
// object of controlled lifetime, passed by reference into the dispatcher.
//
// Registry is safe for concurrent use. Two racing resolutions of the same
// unresolved name may both pay the resolution cost but land the same binding.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]*Callable
	types    map[string]map[string]*Callable

	keyByQualified bool
	logger         *log.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		bindings: make(map[string]*Callable),
		types:    make(map[string]map[string]*Callable),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds name directly to a callable. The binding is shared by every
// descriptor carrying that name.
func (r *Registry) Register(name string, c *Callable) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("dispatch: function name %q does not match %s: %w", name, namePattern, funcall.ErrInvalidArgument)
	}
	if c == nil {
		return fmt.Errorf("dispatch: nil callable for %q: %w", name, funcall.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[name] = c
	r.logger.Debug("registered function", "name", name)
	return nil
}

// RegisterType exposes a set of members under a dotted type qualifier, e.g.
// "Weather.Forecast". Qualified names reach these members through Resolve.
func (r *Registry) RegisterType(typeName string, members map[string]*Callable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[typeName]
	if !ok {
		t = make(map[string]*Callable)
		r.types[typeName] = t
	}
	for member, c := range members {
		t[member] = c
	}
	r.logger.Debug("registered type", "type", typeName, "members", len(members))
}

// Resolve returns the callable bound to name.
//
// A cache miss requires a qualified name: the name is split at its LAST
// underscore into a type qualifier and a member suffix, underscores in the
// type qualifier map to namespace separators, and the member is looked up on
// the registered type. The resolved binding is cached for future reuse.
func (r *Registry) Resolve(name string) (*Callable, error) {
	r.mu.RLock()
	c, ok := r.bindings[name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	i := strings.LastIndex(name, memberSeparator)
	if i <= 0 || i == len(name)-1 {
		return nil, fmt.Errorf("dispatch: %q has no type qualifier to resolve against: %w", name, funcall.ErrInvalidOperation)
	}
	typeKey := strings.ReplaceAll(name[:i], memberSeparator, ".")
	member := name[i+1:]

	key := name
	if r.keyByQualified {
		key = typeKey + "." + member
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// A racing resolution may have landed the binding already.
	if c, ok := r.bindings[key]; ok {
		return c, nil
	}
	t, ok := r.types[typeKey]
	if !ok {
		return nil, fmt.Errorf("dispatch: type %q not found for %q: %w", typeKey, name, funcall.ErrInvalidOperation)
	}
	c, ok = t[member]
	if !ok {
		return nil, fmt.Errorf("dispatch: member %q not found on %q: %w", member, typeKey, funcall.ErrInvalidOperation)
	}
	r.bindings[key] = c
	r.logger.Debug("cached resolved binding", "name", name, "key", key)
	return c, nil
}
