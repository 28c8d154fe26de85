package mesh_provider

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// meshProvider is the unexported implementation of MeshProvider.
type meshProvider struct {
	mu *sync.Mutex

	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed.

	// vertexBuffer is the GPU vertex buffer, or nil before the first upload.
	vertexBuffer *wgpu.Buffer
	// indexBuffer is the GPU index buffer, or nil before the first upload.
	indexBuffer *wgpu.Buffer
	// indexCount is the number of indices for draw calls, split evenly between the eyes.
	indexCount int
	// generation is the snapshot generation of the uploaded buffers.
	generation uint64
}

// MeshProvider owns the GPU vertex and index buffers of a projection surface.
// Each upload creates a fresh buffer pair and swaps it in as a unit, releasing the previous pair,
// so draw calls never see positions from one generation with indices from another.
//
// Usage pattern:
//  1. Surface publishes a Snapshot (TakeDirty in the render loop)
//  2. Stage packs it for the active stereo mode
//  3. Upload creates and fills the GPU buffers
//  4. The renderer issues one indexed draw per eye using DrawRange
type MeshProvider interface {
	// Release releases the GPU buffers held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// VertexBuffer returns the GPU vertex buffer, or nil if nothing was uploaded.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer or nil
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the GPU index buffer, or nil if nothing was uploaded.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer or nil
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices for both eyes.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Generation returns the snapshot generation of the uploaded buffers.
	//
	// Returns:
	//   - uint64: the generation, zero before the first upload
	Generation() uint64

	// DrawRange returns the index range drawn for one eye.
	// The left eye's triangles fill the first half of the index buffer.
	//
	// Parameters:
	//   - eye: the eye to draw
	//
	// Returns:
	//   - firstIndex: offset of the first index
	//   - indexCount: number of indices to draw
	DrawRange(eye common.Eye) (firstIndex, indexCount uint32)

	// Upload creates GPU buffers for staged and replaces the current ones.
	// Empty meshes release the current buffers and leave the provider empty.
	//
	// Parameters:
	//   - device: the device that creates the buffers
	//   - queue: the queue that receives the data writes
	//   - staged: the packed mesh
	//
	// Returns:
	//   - error: ErrNoStagedMesh for a nil staged mesh, or an error if buffer creation or
	//     the writes fail; the previous buffers stay in place
	Upload(device *wgpu.Device, queue *wgpu.Queue, staged *StagedMesh) error
}

// Compile-time check that meshProvider implements MeshProvider
var _ MeshProvider = &meshProvider{}

// NewMeshProvider creates an empty MeshProvider.
//
// Parameters:
//   - label: the debug label used for the GPU buffers
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - MeshProvider: a new instance of MeshProvider
func NewMeshProvider(label string, options ...MeshProviderOption) MeshProvider {
	p := &meshProvider{
		mu:    &sync.Mutex{},
		label: label,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *meshProvider) Label() string {
	return p.label
}

func (p *meshProvider) VertexBuffer() *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vertexBuffer
}

func (p *meshProvider) IndexBuffer() *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexBuffer
}

func (p *meshProvider) IndexCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexCount
}

func (p *meshProvider) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

func (p *meshProvider) DrawRange(eye common.Eye) (firstIndex, indexCount uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return drawRange(p.indexCount, eye)
}

func (p *meshProvider) Upload(device *wgpu.Device, queue *wgpu.Queue, staged *StagedMesh) error {
	if staged == nil {
		return fmt.Errorf("%w: %s", ErrNoStagedMesh, p.label)
	}
	if len(staged.Vertices) == 0 || staged.IndexCount == 0 {
		p.swap(nil, nil, 0, staged.Generation)
		return nil
	}

	vb, err := createBuffer(device, queue, p.label+" Vertex Buffer", wgpu.BufferUsageVertex, staged.Vertices)
	if err != nil {
		return err
	}
	ib, err := createBuffer(device, queue, p.label+" Index Buffer", wgpu.BufferUsageIndex, staged.Indices)
	if err != nil {
		vb.Release()
		return err
	}

	p.swap(vb, ib, staged.IndexCount, staged.Generation)
	common.Logger().Debug("mesh buffers uploaded",
		"label", p.label,
		"generation", staged.Generation,
		"mode", staged.Mode,
		"vertexBytes", len(staged.Vertices),
		"indexBytes", len(staged.Indices),
	)
	return nil
}

func (p *meshProvider) Release() {
	p.swap(nil, nil, 0, 0)
}

// swap installs a new buffer pair and releases the previous one.
func (p *meshProvider) swap(vb, ib *wgpu.Buffer, indexCount int, generation uint64) {
	p.mu.Lock()
	oldVB, oldIB := p.vertexBuffer, p.indexBuffer
	p.vertexBuffer, p.indexBuffer = vb, ib
	p.indexCount = indexCount
	p.generation = generation
	p.mu.Unlock()

	if oldVB != nil {
		oldVB.Release()
	}
	if oldIB != nil {
		oldIB.Release()
	}
}

func createBuffer(device *wgpu.Device, queue *wgpu.Queue, label string, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(len(data)),
		Usage:            usage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

// drawRange splits indexCount evenly between the eyes, left first.
func drawRange(indexCount int, eye common.Eye) (firstIndex, count uint32) {
	half := uint32(indexCount / 2)
	if eye == common.EyeRight {
		return half, half
	}
	return 0, half
}
