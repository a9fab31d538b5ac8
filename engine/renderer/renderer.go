package renderer

import (
	"fmt"

	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

type Renderer struct {
	backend RendererBackend
}

// New wraps a backend. A nil backend selects the headless one.
func New(backend RendererBackend) (*Renderer, error) {
	if backend == nil {
		backend = NewHeadlessBackend()
	}
	if err := backend.Initialize(); err != nil {
		return nil, fmt.Errorf("renderer backend initialize: %w", err)
	}
	return &Renderer{backend: backend}, nil
}

func (r *Renderer) Backend() RendererBackend {
	return r.backend
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) UploadBatch(buffers *metadata.BatchBuffers) error {
	if err := r.backend.UploadBatch(buffers); err != nil {
		return fmt.Errorf("upload batch %s: %w", buffers.BatchID, err)
	}
	core.LogDebug("uploaded %s batch %s (%d bytes)", buffers.GeometryType, buffers.BatchID, buffers.ByteSize())
	return nil
}

func (r *Renderer) DestroyBatch(batchID string) {
	r.backend.DestroyBatch(batchID)
}

func (r *Renderer) UpdateDrawGroups(batchID string, groups []metadata.DrawRange) error {
	return r.backend.UpdateDrawGroups(batchID, groups)
}

// DrawFrame draws every batch's groups between BeginFrame and EndFrame.
func (r *Renderer) DrawFrame(infos []metadata.BatchDrawInfo, deltaTime float64) error {
	if err := r.backend.BeginFrame(deltaTime); err != nil {
		core.LogError(err.Error())
		return err
	}
	for _, info := range infos {
		if err := r.backend.DrawBatch(info); err != nil {
			core.LogError("failed to draw batch %s: %s", info.BatchID, err.Error())
			// close the frame so the next one can begin
			_ = r.backend.EndFrame(deltaTime)
			return err
		}
	}
	if err := r.backend.EndFrame(deltaTime); err != nil {
		core.LogError("renderer EndFrame failed")
		return err
	}
	return nil
}
