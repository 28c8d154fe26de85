package projection

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var builtins = []func() Projection{NewDome, NewSphere, NewCylinder, NewFlat, NewBarrel}

func TestDomeConcreteScenario(t *testing.T) {
	p := NewParameters(WithSlices(16), WithStacks(16), WithRadius(1))
	mesh := NewDome().GenerateMesh(p)

	assert.Len(t, mesh.Positions, 2*17*9)
	assert.Equal(t, 2*(16/2)*(16-1)*2, mesh.TriangleCount())
	assert.Len(t, mesh.TriangleIndices, 3*480)
}

func TestVertexCount(t *testing.T) {
	for _, newProjection := range builtins {
		proj := newProjection()
		for _, slices := range []int{4, 6, 8, 10, 16, 32, 64} {
			for _, stacks := range []int{1, 2, 3, 16, 31} {
				p := NewParameters(WithSlices(slices), WithStacks(stacks))
				mesh := proj.GenerateMesh(p)
				assert.Len(t, mesh.Positions, 2*(stacks+1)*(slices/2+1), "%s %dx%d", proj.Kind(), slices, stacks)
				assert.Equal(t, p.VertexCount(), len(mesh.Positions))
			}
		}
	}
}

func TestIndicesInRange(t *testing.T) {
	for _, newProjection := range builtins {
		proj := newProjection()
		for _, slices := range []int{4, 6, 12, 16} {
			for _, stacks := range []int{1, 2, 5, 16} {
				p := NewParameters(WithSlices(slices), WithStacks(stacks))
				mesh := proj.GenerateMesh(p)
				require.Zero(t, len(mesh.TriangleIndices)%3)

				eyeCount := uint32(p.EyeVertexCount())
				start, end := mesh.EyeIndexRange(common.EyeLeft)
				for _, idx := range mesh.TriangleIndices[start:end] {
					assert.Less(t, idx, eyeCount, "%s left eye index escapes its half", proj.Kind())
				}
				start, end = mesh.EyeIndexRange(common.EyeRight)
				for _, idx := range mesh.TriangleIndices[start:end] {
					assert.GreaterOrEqual(t, idx, eyeCount, "%s right eye index escapes its half", proj.Kind())
					assert.Less(t, idx, uint32(len(mesh.Positions)))
				}
			}
		}
	}
}

func TestPinchedTriangleCount(t *testing.T) {
	tests := []struct {
		name   string
		proj   Projection
		slices int
		stacks int
		want   int
	}{
		{"dome 16x16", NewDome(), 16, 16, 2 * 8 * 15 * 2},
		{"dome single stack", NewDome(), 16, 1, 0},
		{"sphere 8x4", NewSphere(), 8, 4, 2 * 4 * 3 * 2},
		{"cylinder keeps rims", NewCylinder(), 16, 16, 2 * 8 * 16 * 2},
		{"flat single stack", NewFlat(), 4, 1, 2 * 2 * 1 * 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := tt.proj.GenerateMesh(NewParameters(WithSlices(tt.slices), WithStacks(tt.stacks)))
			assert.Equal(t, tt.want, mesh.TriangleCount())
		})
	}
}

func TestCenterTranslationCommutes(t *testing.T) {
	center := mgl32.Vec3{3.5, -2, 7.25}
	for _, newProjection := range builtins {
		proj := newProjection()
		base := proj.GenerateMesh(NewParameters(WithSlices(12), WithStacks(6)))
		moved := proj.GenerateMesh(NewParameters(WithSlices(12), WithStacks(6), WithCenter(center[0], center[1], center[2])))

		require.Len(t, moved.Positions, len(base.Positions))
		assert.Equal(t, base.TriangleIndices, moved.TriangleIndices)
		for i := range base.Positions {
			assert.True(t, base.Positions[i].Add(center).ApproxEqualThreshold(moved.Positions[i], 1e-3),
				"%s vertex %d: %v + %v != %v", proj.Kind(), i, base.Positions[i], center, moved.Positions[i])
		}
	}
}

func TestCameraOffsets(t *testing.T) {
	offsets := NewDome().CameraOffsets(NewParameters(WithRadius(1)))
	assert.Equal(t, mgl32.Vec3{1001, 0, 0}, offsets.Left)
	assert.Equal(t, mgl32.Vec3{-1001, 0, 0}, offsets.Right)

	offsets = NewDome().CameraOffsets(NewParameters(WithRadius(2.5)))
	assert.Equal(t, mgl32.Vec3{1002.5, 0, 0}, offsets.Left)
	assert.Equal(t, offsets.Left.Mul(-1), offsets.Right)
}

func TestSurfaceSitsAroundCamera(t *testing.T) {
	p := NewParameters(WithSlices(16), WithStacks(8), WithRadius(3))
	for _, proj := range []Projection{NewDome(), NewSphere()} {
		mesh := proj.GenerateMesh(p)
		offsets := proj.CameraOffsets(p)
		for _, eye := range common.Eyes {
			for _, pos := range mesh.EyePositions(eye) {
				assert.InDelta(t, p.Radius, pos.Sub(offsets.Eye(eye)).Len(), 1e-3, "%s %s eye", proj.Kind(), eye)
			}
		}
	}
}

func TestDomeIsForwardCap(t *testing.T) {
	p := NewParameters(WithSlices(16), WithStacks(8))
	mesh := NewDome().GenerateMesh(p)
	for _, pos := range mesh.Positions {
		assert.GreaterOrEqual(t, pos.Z(), float32(-1e-5))
	}
}

// Triangles follow the (top,bot,top+1) index order, which winds counter-clockwise seen
// from outside the surface.
func TestWindingNormalsPointOutward(t *testing.T) {
	p := NewParameters(WithSlices(16), WithStacks(16))
	for _, newProjection := range builtins {
		proj := newProjection()
		mesh := proj.GenerateMesh(p)
		offsets := proj.CameraOffsets(p)
		eyeVertices := uint32(p.EyeVertexCount())
		for i := 0; i < len(mesh.TriangleIndices); i += 3 {
			a, b, c := mesh.TriangleIndices[i], mesh.TriangleIndices[i+1], mesh.TriangleIndices[i+2]
			eye := common.EyeLeft
			if a >= eyeVertices {
				eye = common.EyeRight
			}
			origin := offsets.Eye(eye)
			pa := mesh.Positions[a].Sub(origin)
			pb := mesh.Positions[b].Sub(origin)
			pc := mesh.Positions[c].Sub(origin)
			normal := pb.Sub(pa).Cross(pc.Sub(pa))
			centroid := pa.Add(pb).Add(pc).Mul(1.0 / 3)
			assert.Greater(t, normal.Dot(centroid), float32(0), "%s triangle %d flips winding", proj.Kind(), i/3)
		}
	}
}

func TestInvalidParametersYieldEmptyMesh(t *testing.T) {
	tests := []struct {
		name string
		opts []ParametersOption
	}{
		{"zero stacks", []ParametersOption{WithStacks(0)}},
		{"negative stacks", []ParametersOption{WithStacks(-3)}},
		{"two slices", []ParametersOption{WithSlices(2)}},
		{"zero slices", []ParametersOption{WithSlices(0)}},
		{"odd slices", []ParametersOption{WithSlices(15)}},
		{"zero radius", []ParametersOption{WithRadius(0)}},
		{"negative radius", []ParametersOption{WithRadius(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParameters(tt.opts...)
			require.ErrorIs(t, p.Validate(), ErrInvalidParameters)
			for _, newProjection := range builtins {
				proj := newProjection()
				assert.NotPanics(t, func() {
					mesh := proj.GenerateMesh(p)
					assert.True(t, mesh.Empty())
					assert.Empty(t, mesh.Positions)
					for _, mode := range StereoModes {
						assert.Empty(t, proj.MapUV(p, mode).UVs)
					}
				})
			}
		})
	}
}

func TestConcurrentGenerationIsDeterministic(t *testing.T) {
	p := NewParameters(WithSlices(32), WithStacks(24), WithRadius(2), WithStereoMode(StereoModeOverUnder))
	proj := NewDome()
	want := proj.GenerateMesh(p)

	var wg sync.WaitGroup
	results := make([]Mesh, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = proj.GenerateMesh(p)
		}()
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
