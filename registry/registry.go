// Package registry stores automata under user chosen names and runs the
// automaton operations on them by name. It backs the interactive shell, the
// HTTP API and the MCP server.
//
// Persistence is delegated to a Store; see the memory, file and redis
// subpackages.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/wolever/automaton"
	"github.com/wolever/automaton/internal/logging"
	"github.com/wolever/automaton/internal/metrics"
)

// ErrNotFound is returned when no automaton is stored under a name.
var ErrNotFound = errors.New("automaton not found")

// ErrExists is returned by Add when the name is already taken.
var ErrExists = errors.New("automaton already exists")

// ErrInvalidName is returned for names that don't match NamePattern.
var ErrInvalidName = errors.New("invalid automaton name")

// ErrUnknownOperation is returned by Derive for an operation it doesn't know.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrArity is returned by Derive when the operand count doesn't match the
// operation.
var ErrArity = errors.New("wrong number of operands")

// NamePattern is the syntax of automaton names.
var NamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Store persists automata by name. Implementations must be safe for
// concurrent use and must not share state with the automata they are given
// or return.
type Store interface {
	// Save stores ``a`` under ``name``, replacing any previous automaton.
	Save(ctx context.Context, name string, a *automaton.Automaton) error
	// Load returns the automaton stored under ``name`` or ErrNotFound.
	Load(ctx context.Context, name string) (*automaton.Automaton, error)
	// Delete removes ``name``. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the stored names in any order.
	List(ctx context.Context) ([]string, error)
}

// Registry is a named collection of automata. Every operation goes through
// the Store; the registry serializes writers so that read-modify-write
// operations like Apply are atomic within a process.
type Registry struct {
	mu      sync.RWMutex
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. Operations are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMetrics records every operation in ``m``.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// New creates a registry persisting to ``store``.
func New(store Store, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ValidName reports whether ``name`` can be used as an automaton name.
func ValidName(name string) bool {
	return NamePattern.MatchString(name)
}

func checkName(name string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// track starts timing an operation; call the result with the operation's
// final error.
func (r *Registry) track(op, name string) func(err *error) {
	start := time.Now()
	return func(err *error) {
		r.metrics.Observe(op, start, *err)
		if *err != nil {
			r.logger.Debug("registry operation failed", "op", op, "name", name, "error", *err)
			return
		}
		r.logger.Debug("registry operation", "op", op, "name", name, "duration", time.Since(start))
	}
}

func (r *Registry) updateStored(ctx context.Context) {
	if r.metrics == nil {
		return
	}
	names, err := r.store.List(ctx)
	if err != nil {
		r.logger.Warn("failed to count stored automata", "error", err)
		return
	}
	r.metrics.SetStored(len(names))
}

// Add stores ``a`` under a new ``name``.
func (r *Registry) Add(ctx context.Context, name string, a *automaton.Automaton) (err error) {
	defer r.track("add", name)(&err)
	if err := checkName(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.store.Load(ctx, name); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, name)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := r.store.Save(ctx, name, a); err != nil {
		return err
	}
	r.updateStored(ctx)
	return nil
}

// Put stores ``a`` under ``name``, replacing any existing automaton.
func (r *Registry) Put(ctx context.Context, name string, a *automaton.Automaton) (err error) {
	defer r.track("put", name)(&err)
	if err := checkName(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Save(ctx, name, a); err != nil {
		return err
	}
	r.updateStored(ctx)
	return nil
}

// Get returns a copy of the automaton stored under ``name``.
func (r *Registry) Get(ctx context.Context, name string) (a *automaton.Automaton, err error) {
	defer r.track("get", name)(&err)
	if err := checkName(name); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store.Load(ctx, name)
}

// Remove deletes the automaton stored under ``name``.
func (r *Registry) Remove(ctx context.Context, name string) (err error) {
	defer r.track("remove", name)(&err)
	if err := checkName(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.store.Load(ctx, name); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, name); err != nil {
		return err
	}
	r.updateStored(ctx)
	return nil
}

// Names returns the stored names, sorted.
func (r *Registry) Names(ctx context.Context) (names []string, err error) {
	defer r.track("names", "")(&err)

	r.mu.RLock()
	defer r.mu.RUnlock()

	names, err = r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Apply runs ``fn`` on the automaton stored under ``name`` and saves the
// result when ``fn`` reports a change. The mutators of automaton.Automaton
// fit directly:
//
//	reg.Apply(ctx, "m", func(a *automaton.Automaton) bool {
//		return a.MakeStateFinal("2")
//	})
func (r *Registry) Apply(ctx context.Context, name string, fn func(a *automaton.Automaton) bool) (changed bool, err error) {
	defer r.track("apply", name)(&err)
	if err := checkName(name); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.store.Load(ctx, name)
	if err != nil {
		return false, err
	}
	if !fn(a) {
		return false, nil
	}
	return true, r.store.Save(ctx, name, a)
}

// Compile compiles ``regex`` and stores the minimal automaton under ``name``.
func (r *Registry) Compile(ctx context.Context, name, regex string) (*automaton.Automaton, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	a, err := automaton.Compile(regex)
	if err != nil {
		return nil, err
	}
	if err := r.Put(ctx, name, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Accepts reports whether the automaton stored under ``name`` accepts
// ``word``.
func (r *Registry) Accepts(ctx context.Context, name, word string) (bool, error) {
	a, err := r.Get(ctx, name)
	if err != nil {
		return false, err
	}
	return a.AcceptsWord(word), nil
}
