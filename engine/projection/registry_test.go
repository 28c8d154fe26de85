package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, []ShapeKind{ShapeDome, ShapeSphere, ShapeCylinder, ShapeFlat, ShapeBarrel}, r.Kinds())

	for _, kind := range r.Kinds() {
		p, err := r.Lookup(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, p.Kind())
		assert.Equal(t, EyeDistance, p.Distance())
	}

	first, err := r.First()
	require.NoError(t, err)
	assert.Equal(t, ShapeDome, first.Kind())
}

func TestRegistryLookupMiss(t *testing.T) {
	_, err := NewDefaultRegistry().Lookup("fisheye")
	assert.ErrorIs(t, err, ErrUnknownShape)
	assert.Contains(t, err.Error(), "fisheye")
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	_, err := r.First()
	assert.ErrorIs(t, err, ErrUnknownShape)

	require.NoError(t, r.Register(NewFlat()))
	assert.ErrorIs(t, r.Register(NewFlat()), ErrDuplicateShape)
	require.NoError(t, r.Register(NewDome()))
	assert.Equal(t, []ShapeKind{ShapeFlat, ShapeDome}, r.Kinds())

	kinds := r.Kinds()
	kinds[0] = "mutated"
	assert.Equal(t, ShapeFlat, r.Kinds()[0])
}

func TestWithProjectionIgnoresDuplicates(t *testing.T) {
	r := NewRegistry(WithProjection(NewSphere()), WithProjection(NewSphere()))
	assert.Equal(t, []ShapeKind{ShapeSphere}, r.Kinds())
}
