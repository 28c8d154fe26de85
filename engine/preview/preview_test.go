package preview

import (
	"context"
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAllRegisteredVariants(t *testing.T) {
	registry := projection.NewDefaultRegistry()
	p := NewPreviewer(registry, WithWorkers(3))
	defer p.Close()

	params := projection.NewParameters(projection.WithSlices(16), projection.WithStacks(16))
	results := p.GenerateAll(context.Background(), params)

	require.Len(t, results, len(registry.Kinds()))
	for i, kind := range registry.Kinds() {
		r := results[i]
		require.NoError(t, r.Err, kind)
		assert.Equal(t, kind, r.Shape)
		assert.Equal(t, kind, r.Snapshot.Shape)
		assert.Equal(t, kind, r.Snapshot.Parameters.Shape)
		assert.Len(t, r.Snapshot.Mesh.Positions, 306)

		proj, err := registry.Lookup(kind)
		require.NoError(t, err)
		expected := proj.GenerateMesh(r.Snapshot.Parameters)
		assert.Equal(t, expected.Positions, r.Snapshot.Mesh.Positions, kind)
		assert.Equal(t, expected.TriangleIndices, r.Snapshot.Mesh.TriangleIndices, kind)
	}
}

func TestGenerateKeepsRequestOrderAndIsolatesFailures(t *testing.T) {
	p := NewPreviewer(projection.NewDefaultRegistry(), WithWorkers(2), WithQueueSize(4))
	defer p.Close()

	requests := []Request{
		{Shape: projection.ShapeDome, Parameters: projection.DefaultParameters()},
		{Shape: "torus", Parameters: projection.DefaultParameters()},
		{Shape: projection.ShapeFlat, Parameters: projection.NewParameters(projection.WithSlices(7))},
		{Shape: projection.ShapeSphere, Parameters: projection.NewParameters(projection.WithSlices(8), projection.WithStacks(4))},
	}
	results := p.Generate(context.Background(), requests...)

	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, projection.ErrUnknownShape)
	assert.Nil(t, results[1].Snapshot)
	assert.ErrorIs(t, results[2].Err, projection.ErrInvalidParameters)
	require.NoError(t, results[3].Err)
	assert.Len(t, results[3].Snapshot.Mesh.Positions, 2*5*5)
	for i, r := range results {
		assert.Equal(t, requests[i], r.Request)
	}
}

func TestGenerateManyRequests(t *testing.T) {
	p := NewPreviewer(projection.NewDefaultRegistry(), WithWorkers(4), WithQueueSize(8))
	defer p.Close()
	assert.Equal(t, 4, p.Workers())

	var requests []Request
	for slices := 4; slices <= 64; slices += 2 {
		requests = append(requests, Request{
			Shape:      projection.ShapeBarrel,
			Parameters: projection.NewParameters(projection.WithSlices(slices), projection.WithStacks(8)),
		})
	}
	results := p.Generate(context.Background(), requests...)

	require.Len(t, results, len(requests))
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, r.Parameters.VertexCount(), len(r.Snapshot.Mesh.Positions))
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	p := NewPreviewer(projection.NewDefaultRegistry(), WithWorkers(1))
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := p.Generate(ctx, Request{Shape: projection.ShapeDome, Parameters: projection.DefaultParameters()})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestGenerateAfterClose(t *testing.T) {
	p := NewPreviewer(projection.NewDefaultRegistry(), WithWorkers(1))
	p.Close()
	p.Close()

	results := p.Generate(context.Background(), Request{Shape: projection.ShapeDome, Parameters: projection.DefaultParameters()})
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Empty(t, p.Generate(context.Background()))
}
