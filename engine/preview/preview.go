package preview

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/Carmen-Shannon/oxy-vr/engine/surface"
)

// Request names one variant and the parameters to generate it with.
type Request struct {
	// Shape is the registry key of the variant.
	Shape projection.ShapeKind
	// Parameters are the generation parameters. Parameters.Shape is overwritten with Shape.
	Parameters projection.Parameters
}

// Result is the outcome of one Request.
type Result struct {
	Request
	// Snapshot is the generated snapshot, nil when Err is set.
	Snapshot *surface.Snapshot
	// Err is set when the shape is unknown, the parameters are invalid or the context was cancelled.
	Err error
}

// previewer is the unexported implementation of Previewer.
type previewer struct {
	mu       *sync.Mutex
	registry projection.Registry
	pool     worker.DynamicWorkerPool
	workers  int
	queue    int
	closed   bool
	taskID   int
}

// Previewer pre-generates snapshots for several variants at once, for example to
// fill a settings screen with thumbnails of every shape.
// Generation runs on a shared worker pool; each call blocks until all of its requests finished.
type Previewer interface {
	// Generate builds one snapshot per request concurrently.
	// Results are returned in request order. A failed request does not affect the others.
	//
	// Parameters:
	//   - ctx: requests not yet started when ctx is done are skipped with ctx.Err()
	//   - requests: the variants to generate
	//
	// Returns:
	//   - []Result: one result per request, in request order
	Generate(ctx context.Context, requests ...Request) []Result

	// GenerateAll builds one snapshot for every registered variant using the same parameters.
	//
	// Parameters:
	//   - ctx: cancels requests not yet started
	//   - p: the parameters shared by every variant
	//
	// Returns:
	//   - []Result: one result per registered kind, in registration order
	GenerateAll(ctx context.Context, p projection.Parameters) []Result

	// Workers returns the size of the worker pool.
	//
	// Returns:
	//   - int: the maximum number of concurrent generations
	Workers() int

	// Close stops the worker pool. Generate must not be called afterwards.
	Close()
}

var _ Previewer = &previewer{}

// NewPreviewer creates a Previewer over the given registry.
//
// Parameters:
//   - registry: the registry variants are looked up in
//   - options: a variadic list of options to configure the previewer
//
// Returns:
//   - Previewer: a new instance with a started worker pool
func NewPreviewer(registry projection.Registry, options ...PreviewerOption) Previewer {
	p := &previewer{
		mu:       &sync.Mutex{},
		registry: registry,
		workers:  runtime.NumCPU(),
		queue:    256,
	}
	for _, opt := range options {
		opt(p)
	}
	// pool is built after options so WithWorkers can override the default.
	p.pool = worker.NewDynamicWorkerPool(p.workers, p.queue, 1*time.Second)
	return p
}

func (p *previewer) Workers() int {
	return p.pool.GetMaxWorkers()
}

func (p *previewer) Generate(ctx context.Context, requests ...Request) []Result {
	results := make([]Result, len(requests))
	if len(requests) == 0 {
		return results
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		for i, req := range requests {
			results[i] = Result{Request: req, Err: fmt.Errorf("preview %s: previewer closed", req.Shape)}
		}
		return results
	}
	baseID := p.taskID
	p.taskID += len(requests)
	p.mu.Unlock()

	start := time.Now()
	// Each task writes only its own slot, so results needs no lock.
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		idx := i
		r := req
		p.pool.SubmitTask(worker.Task{
			ID:      baseID + idx,
			Payload: r,
			Do: func() (any, error) {
				defer wg.Done()
				results[idx] = p.generate(ctx, r)
				return results[idx].Snapshot, results[idx].Err
			},
		})
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	common.Logger().Debug("preview generated",
		"requests", len(requests),
		"failed", failed,
		"elapsed", time.Since(start),
	)
	return results
}

func (p *previewer) GenerateAll(ctx context.Context, params projection.Parameters) []Result {
	kinds := p.registry.Kinds()
	requests := make([]Request, len(kinds))
	for i, kind := range kinds {
		requests[i] = Request{Shape: kind, Parameters: params}
	}
	return p.Generate(ctx, requests...)
}

func (p *previewer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.pool.Stop()
}

func (p *previewer) generate(ctx context.Context, req Request) Result {
	if err := ctx.Err(); err != nil {
		return Result{Request: req, Err: err}
	}

	proj, err := p.registry.Lookup(req.Shape)
	if err != nil {
		return Result{Request: req, Err: fmt.Errorf("preview: %w", err)}
	}

	params := req.Parameters
	params.Shape = req.Shape
	if err := params.Validate(); err != nil {
		return Result{Request: req, Err: fmt.Errorf("preview %s: %w", req.Shape, err)}
	}

	return Result{Request: req, Snapshot: surface.Generate(proj, params)}
}
