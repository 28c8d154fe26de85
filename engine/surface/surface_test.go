package surface

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSurface(t *testing.T, options ...SurfaceOption) Surface {
	t.Helper()
	s, err := NewSurface(projection.NewDefaultRegistry(), options...)
	require.NoError(t, err)
	return s
}

func TestNewSurfaceGeneratesDefaults(t *testing.T) {
	s := newTestSurface(t)

	assert.Equal(t, projection.ShapeDome, s.Projection().Kind())
	assert.Len(t, s.Positions(), 306)
	assert.Len(t, s.TriangleIndices(), 1440)
	assert.Len(t, s.MonoTextureCoordinates(), 306)
	assert.Len(t, s.OverUnderTextureCoordinates(), 306)
	assert.Len(t, s.SideBySideTextureCoordinates(), 306)
	assert.Equal(t, s.MonoTextureCoordinates(), s.TextureCoordinates())
	assert.Equal(t, mgl32.Vec3{1001, 0, 0}, s.CameraLeftPosition())
	assert.Equal(t, mgl32.Vec3{-1001, 0, 0}, s.CameraRightPosition())

	snap, dirty := s.TakeDirty()
	require.True(t, dirty)
	assert.Equal(t, uint64(1), snap.Generation)
	_, dirty = s.TakeDirty()
	assert.False(t, dirty)
}

func TestNewSurfaceRejectsBadParameters(t *testing.T) {
	_, err := NewSurface(projection.NewDefaultRegistry(),
		WithParameters(projection.NewParameters(projection.WithSlices(7))))
	assert.ErrorIs(t, err, projection.ErrInvalidParameters)

	_, err = NewSurface(projection.NewDefaultRegistry(),
		WithParameters(projection.NewParameters(projection.WithShape("fisheye"))))
	assert.ErrorIs(t, err, projection.ErrUnknownShape)
}

func TestUpdateRegeneratesEverything(t *testing.T) {
	var seen []*Snapshot
	s := newTestSurface(t, WithChangeListener(func(snap *Snapshot) {
		seen = append(seen, snap)
	}))
	before := s.Snapshot()

	require.NoError(t, s.Update(projection.WithSlices(8), projection.WithStacks(4), projection.WithRadius(2)))
	after := s.Snapshot()

	assert.NotSame(t, before, after)
	assert.Equal(t, before.Generation+1, after.Generation)
	assert.Len(t, after.Mesh.Positions, 2*5*5)
	for _, mode := range projection.StereoModes {
		assert.Len(t, after.TextureCoordinateSet(mode).UVs, 2*5*5)
	}
	assert.Equal(t, mgl32.Vec3{1002, 0, 0}, s.CameraLeftPosition())

	require.Len(t, seen, 2)
	assert.Same(t, after, seen[1])

	// The superseded snapshot is untouched.
	assert.Len(t, before.Mesh.Positions, 306)
}

func TestInvalidUpdateKeepsSnapshot(t *testing.T) {
	s := newTestSurface(t)
	before := s.Snapshot()

	assert.ErrorIs(t, s.Update(projection.WithStacks(0)), projection.ErrInvalidParameters)
	assert.ErrorIs(t, s.SetStereoMode(projection.StereoMode(7)), projection.ErrUnknownStereoMode)
	assert.ErrorIs(t, s.Update(projection.WithShape("fisheye")), projection.ErrUnknownShape)

	assert.Same(t, before, s.Snapshot())
	assert.Equal(t, projection.ShapeDome, s.Projection().Kind())
}

func TestSetStereoModeSelectsCoordinates(t *testing.T) {
	s := newTestSurface(t)
	require.NoError(t, s.SetStereoMode(projection.StereoModeSideBySide))

	assert.Equal(t, projection.StereoModeSideBySide, s.Parameters().StereoMode)
	assert.Equal(t, s.SideBySideTextureCoordinates(), s.TextureCoordinates())
}

func TestShapeChangeSwapsVariant(t *testing.T) {
	s := newTestSurface(t)
	require.NoError(t, s.Update(projection.WithShape(projection.ShapeCylinder)))

	assert.Equal(t, projection.ShapeCylinder, s.Projection().Kind())
	assert.Equal(t, projection.ShapeCylinder, s.Snapshot().Shape)
	// Cylinders have no poles, so every band keeps both triangles.
	assert.Equal(t, 2*8*16*2, s.Snapshot().Mesh.TriangleCount())
}

func TestDirtyFlagCoalescesChanges(t *testing.T) {
	s := newTestSurface(t)
	s.TakeDirty()

	require.NoError(t, s.Update(projection.WithRadius(2)))
	require.NoError(t, s.Update(projection.WithRadius(3)))

	snap, dirty := s.TakeDirty()
	require.True(t, dirty)
	assert.Equal(t, float32(3), snap.Parameters.Radius)
	_, dirty = s.TakeDirty()
	assert.False(t, dirty)
}

func TestConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	s := newTestSurface(t)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				snap := s.Snapshot()
				assert.Equal(t, snap.Parameters.VertexCount(), len(snap.Mesh.Positions))
				assert.Len(t, snap.ActiveTextureCoordinates().UVs, len(snap.Mesh.Positions))
			}
		}()
	}
	for _, slices := range []int{8, 12, 20, 24, 32} {
		require.NoError(t, s.Update(projection.WithSlices(slices)))
	}
	wg.Wait()
}

func TestConcurrentUpdatesKeepEveryEdit(t *testing.T) {
	s := newTestSurface(t, WithParameters(projection.NewParameters(projection.WithSlices(8), projection.WithStacks(8))))
	addSlices := func(p *projection.Parameters) { p.Slices += 2 }

	const writers = 24
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Update(addSlices))
		}()
	}
	wg.Wait()

	assert.Equal(t, 8+2*writers, s.Parameters().Slices)
	assert.Equal(t, uint64(1+writers), s.Snapshot().Generation)
}

func TestGenerate(t *testing.T) {
	p := projection.NewParameters(projection.WithSlices(12), projection.WithStacks(6))
	snap := Generate(projection.NewFlat(), p)

	assert.Equal(t, projection.ShapeFlat, snap.Shape)
	assert.Zero(t, snap.Generation)
	assert.Len(t, snap.Mesh.Positions, p.VertexCount())
	assert.Equal(t, projection.NewFlat().CameraOffsets(p), snap.Offsets)
	assert.Empty(t, snap.TextureCoordinateSet(projection.StereoMode(-1)).UVs)
}
