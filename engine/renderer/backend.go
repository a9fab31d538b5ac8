package renderer

import "github.com/spaghettifunk/stratum/engine/renderer/metadata"

// RendererBackend is the GPU-facing side of the engine. Batch buffers are
// uploaded once per batch; afterwards only draw groups change.
type RendererBackend interface {
	Initialize() error
	Shutdown() error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error
	UploadBatch(buffers *metadata.BatchBuffers) error
	DestroyBatch(batchID string)
	UpdateDrawGroups(batchID string, groups []metadata.DrawRange) error
	DrawBatch(info metadata.BatchDrawInfo) error
}
