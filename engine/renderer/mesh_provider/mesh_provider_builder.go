package mesh_provider

// MeshProviderOption is a functional option used to configure a MeshProvider during construction.
type MeshProviderOption func(*meshProvider)

// WithGeneration seeds the generation reported before the first upload.
// Hosts that rebuild a provider for an existing snapshot use it to avoid a redundant upload.
//
// Parameters:
//   - generation: the snapshot generation already on the GPU
//
// Returns:
//   - MeshProviderOption: a function that sets the generation
func WithGeneration(generation uint64) MeshProviderOption {
	return func(p *meshProvider) {
		p.generation = generation
	}
}
