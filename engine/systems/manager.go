package systems

import (
	"github.com/spaghettifunk/stratum/engine/config"
	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/renderer"
)

type SystemManager struct {
	worldSystem     *WorldSystem
	geometrySystem  *GeometrySystem
	materialSystem  *MaterialSystem
	renderViewIndex *RenderViewIndex
	batcher         *Batcher
	jobSystem       *JobSystem
}

func NewSystemManager(cfg *config.Config, source ObjectSource, r *renderer.Renderer, metrics *core.Metrics) (*SystemManager, error) {
	js, err := NewJobSystem(cfg.Jobs.Workers, cfg.Jobs.QueueSize, cfg.Jobs.MaxResults)
	if err != nil {
		return nil, err
	}

	ws := NewWorldSystem()
	gs, err := NewGeometrySystem(GeometrySystemConfig{
		UseRTE:     cfg.Geometry.UseRTE,
		ThickLines: cfg.Geometry.ThickLines,
	}, ws)
	if err != nil {
		js.Shutdown()
		return nil, err
	}
	ms, err := NewMaterialSystem(materialConfig(cfg))
	if err != nil {
		js.Shutdown()
		return nil, err
	}
	rvi := NewRenderViewIndex()
	b, err := NewBatcher(source, gs, ms, rvi, r, metrics)
	if err != nil {
		js.Shutdown()
		return nil, err
	}

	return &SystemManager{
		worldSystem:     ws,
		geometrySystem:  gs,
		materialSystem:  ms,
		renderViewIndex: rvi,
		batcher:         b,
		jobSystem:       js,
	}, nil
}

func materialConfig(cfg *config.Config) MaterialSystemConfig {
	return MaterialSystemConfig{
		DefaultColor:   cfg.Batching.DefaultColor,
		HighlightColor: cfg.Batching.HighlightColor,
		GhostOpacity:   cfg.Batching.GhostOpacity,
		LineWidth:      cfg.Batching.LineWidth,
		PointSize:      cfg.Batching.PointSize,
	}
}

/**
 * @brief Applies a reloaded configuration. Encoder settings affect batches
 * built afterwards; job pool sizes are fixed for the lifetime of the manager.
 */
func (sm *SystemManager) ApplyConfig(cfg *config.Config) {
	sm.geometrySystem.SetConfig(GeometrySystemConfig{
		UseRTE:     cfg.Geometry.UseRTE,
		ThickLines: cfg.Geometry.ThickLines,
	})
	sm.materialSystem.SetConfig(materialConfig(cfg))
}

func (sm *SystemManager) World() *WorldSystem {
	return sm.worldSystem
}

func (sm *SystemManager) Geometry() *GeometrySystem {
	return sm.geometrySystem
}

func (sm *SystemManager) Materials() *MaterialSystem {
	return sm.materialSystem
}

func (sm *SystemManager) RenderViews() *RenderViewIndex {
	return sm.renderViewIndex
}

func (sm *SystemManager) Batcher() *Batcher {
	return sm.batcher
}

func (sm *SystemManager) Jobs() *JobSystem {
	return sm.jobSystem
}

func (sm *SystemManager) Shutdown() error {
	sm.batcher.Clear()
	return sm.jobSystem.Shutdown()
}
