package projection

import "github.com/Carmen-Shannon/oxy-vr/common"

// RegistryOption is a functional option used to configure a Registry during construction.
type RegistryOption func(*registry)

// WithProjection registers a projection during construction.
// A duplicate kind is logged and ignored; the first registration wins.
//
// Parameters:
//   - p: the projection to register
//
// Returns:
//   - RegistryOption: a function that registers the projection
func WithProjection(p Projection) RegistryOption {
	return func(r *registry) {
		if err := r.register(p); err != nil {
			common.Logger().Warn("projection registry option ignored", "err", err)
		}
	}
}
