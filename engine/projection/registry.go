package projection

import (
	"fmt"
	"sync"
)

type registry struct {
	mu       *sync.RWMutex
	variants map[ShapeKind]Projection
	order    []ShapeKind
}

// Registry is the closed set of projection shapes available to a host, keyed by ShapeKind.
// New shapes are added by registering another Projection implementation.
type Registry interface {
	// Register adds a projection under its own Kind.
	//
	// Parameters:
	//   - p: the projection to register
	//
	// Returns:
	//   - error: ErrDuplicateShape if the kind is already registered
	Register(p Projection) error

	// Lookup returns the projection registered for the given kind.
	//
	// Parameters:
	//   - kind: the shape kind registry key
	//
	// Returns:
	//   - Projection: the registered projection
	//   - error: ErrUnknownShape if nothing is registered under kind
	Lookup(kind ShapeKind) (Projection, error)

	// Kinds returns the registered shape kinds in registration order.
	//
	// Returns:
	//   - []ShapeKind: the registered kinds
	Kinds() []ShapeKind

	// First returns the earliest registered projection.
	// Composition roots use it as their documented fallback for an unknown configured shape.
	//
	// Returns:
	//   - Projection: the first projection
	//   - error: ErrUnknownShape if the registry is empty
	First() (Projection, error)
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry with the provided options applied.
//
// Parameters:
//   - options: a variadic list of RegistryOption functions
//
// Returns:
//   - Registry: the new registry
func NewRegistry(options ...RegistryOption) Registry {
	r := &registry{
		mu:       &sync.RWMutex{},
		variants: make(map[ShapeKind]Projection),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// NewDefaultRegistry creates a Registry holding every built-in shape, dome first.
//
// Returns:
//   - Registry: the registry of built-in shapes
func NewDefaultRegistry() Registry {
	return NewRegistry(
		WithProjection(NewDome()),
		WithProjection(NewSphere()),
		WithProjection(NewCylinder()),
		WithProjection(NewFlat()),
		WithProjection(NewBarrel()),
	)
}

func (r *registry) Register(p Projection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(p)
}

func (r *registry) Lookup(kind ShapeKind) (Projection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.variants[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, kind)
	}
	return p, nil
}

func (r *registry) Kinds() []ShapeKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ShapeKind(nil), r.order...)
}

func (r *registry) First() (Projection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, fmt.Errorf("%w: registry is empty", ErrUnknownShape)
	}
	return r.variants[r.order[0]], nil
}

// register adds p to the registry. Caller must hold the write lock.
func (r *registry) register(p Projection) error {
	if _, ok := r.variants[p.Kind()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateShape, p.Kind())
	}
	r.variants[p.Kind()] = p
	r.order = append(r.order, p.Kind())
	return nil
}
