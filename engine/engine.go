package engine

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/stratum/engine/config"
	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/math"
	"github.com/spaghettifunk/stratum/engine/renderer"
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
	"github.com/spaghettifunk/stratum/engine/scene"
	"github.com/spaghettifunk/stratum/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Loader produces a scene subtree off the render goroutine.
type Loader func() (*scene.Node, error)

/**
 * @brief The engine facade. All mutation and frame reads go through a single
 * lock, so draw-range changes are only observed at frame boundaries.
 */
type Engine struct {
	mu sync.Mutex

	currentStage  Stage
	config        *config.Config
	tree          *scene.Tree
	renderer      *renderer.Renderer
	systemManager *systems.SystemManager
	events        *core.EventBus
	metrics       *core.Metrics
	clock         *core.Clock
	lastTime      float64
	watcher       *config.Watcher
}

/**
 * @brief Creates an engine. A nil cfg uses the defaults and a nil backend
 * the headless one.
 */
func New(cfg *config.Config, backend renderer.RendererBackend) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	core.SetLogLevel(cfg.LogLevel())
	if cfg.Log.Prefix != "" {
		core.SetLogPrefix(cfg.Log.Prefix)
	}

	r, err := renderer.New(backend)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	tree := scene.NewTree()
	metrics := core.NewMetrics()
	sm, err := systems.NewSystemManager(cfg, tree, r, metrics)
	if err != nil {
		core.LogError(err.Error())
		r.Shutdown()
		return nil, err
	}

	e := &Engine{
		currentStage:  EngineStageInitialized,
		config:        cfg,
		tree:          tree,
		renderer:      r,
		systemManager: sm,
		events:        core.NewEventBus(),
		metrics:       metrics,
		clock:         core.NewClock(),
	}
	e.clock.Start()
	return e, nil
}

// Events fire while the engine lock is held; handlers must not call back
// into the engine.
func (e *Engine) Events() *core.EventBus {
	return e.events
}

func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

func (e *Engine) Config() *config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

/**
 * @brief Adds a subtree to the scene. Its objects are batched by the next
 * MakeAllBatches call.
 */
func (e *Engine) Load(parentID string, node *scene.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.Add(parentID, node)
}

/**
 * @brief Runs loader on a background worker. The resulting subtree is added
 * under parentID by the Update call that drains it.
 */
func (e *Engine) LoadAsync(name, parentID string, loader Loader) error {
	return e.systemManager.Jobs().Submit(metadata.JobTask{
		Name: name,
		OnStart: func() (interface{}, error) {
			return loader()
		},
		OnComplete: func(result interface{}) {
			node, ok := result.(*scene.Node)
			if !ok || node == nil {
				core.LogWarn("loader %s returned no scene node", name)
				return
			}
			if err := e.tree.Add(parentID, node); err != nil {
				core.LogError("loader %s: %s", name, err.Error())
			}
		},
		OnFailure: func(err error) {
			core.LogError("loader %s failed: %s", name, err.Error())
		},
	})
}

/**
 * @brief Delivers finished background loads. Should happen once an update
 * cycle, on the goroutine that renders.
 * @return The number of loads delivered.
 */
func (e *Engine) Update() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.systemManager.Jobs().Drain()
}

// WaitForLoads blocks until every submitted loader has finished running.
func (e *Engine) WaitForLoads() {
	e.systemManager.Jobs().Wait()
}

var batchGroups = []struct {
	geometryType metadata.GeometryType
	kinds        []metadata.ObjectKind
}{
	{metadata.GeometryTypeMesh, []metadata.ObjectKind{metadata.ObjectKindMesh, metadata.ObjectKindBrep}},
	{metadata.GeometryTypeLine, []metadata.ObjectKind{metadata.ObjectKindLine, metadata.ObjectKindPolyline, metadata.ObjectKindCurve}},
	{metadata.GeometryTypePoint, []metadata.ObjectKind{metadata.ObjectKindPoint}},
	{metadata.GeometryTypePointCloud, []metadata.ObjectKind{metadata.ObjectKindPointCloud}},
}

/**
 * @brief Batches every object of the scene that is not batched yet.
 */
func (e *Engine) MakeAllBatches() (systems.BatchReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var total systems.BatchReport
	for _, g := range batchGroups {
		report, err := e.systemManager.Batcher().MakeBatches(g.geometryType, g.kinds...)
		if err != nil {
			return total, err
		}
		total.BatchIDs = append(total.BatchIDs, report.BatchIDs...)
		total.RenderViews += report.RenderViews
		total.Skipped = append(total.Skipped, report.Skipped...)
	}
	if len(total.BatchIDs) > 0 {
		e.events.Fire(core.EVENT_CODE_BATCHES_BUILT, total.BatchIDs)
	}
	return total, nil
}

func (e *Engine) setDrawRanges(objectIDs []string, style metadata.DrawStyle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.systemManager.Batcher().SetDrawRanges(objectIDs, style)
	e.events.Fire(core.EVENT_CODE_DRAW_RANGES_CHANGED, objectIDs)
	return err
}

// Select highlights the given objects and clears any other override.
func (e *Engine) Select(objectIDs []string) error {
	return e.setDrawRanges(objectIDs, metadata.DrawStyle{Kind: metadata.StyleHighlight})
}

// Filter draws the given objects in colour (0xRRGGBB).
func (e *Engine) Filter(objectIDs []string, color uint32) error {
	return e.setDrawRanges(objectIDs, metadata.DrawStyle{Kind: metadata.StyleFilter, Color: color})
}

func (e *Engine) Hide(objectIDs []string) error {
	return e.setDrawRanges(objectIDs, metadata.DrawStyle{Kind: metadata.StyleHidden})
}

/**
 * @brief Hides everything but the given objects, or dims it when ghost is
 * set.
 */
func (e *Engine) Isolate(objectIDs []string, ghost bool) error {
	style := metadata.DrawStyle{Kind: metadata.StyleHidden}
	if ghost {
		style.Kind = metadata.StyleGhost
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.systemManager.Batcher().IsolateObjects(objectIDs, style)
	e.events.Fire(core.EVENT_CODE_DRAW_RANGES_CHANGED, objectIDs)
	return err
}

func (e *Engine) ResetDrawRanges() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.systemManager.Batcher().ResetBatchesDrawRanges()
	e.events.Fire(core.EVENT_CODE_DRAW_RANGES_CHANGED, nil)
}

func (e *Engine) RenderView(batchID string, index int) (metadata.RenderView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.systemManager.Batcher().GetRenderView(batchID, index)
}

func (e *Engine) RenderViewsOf(objectID string) ([]metadata.RenderView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.systemManager.Batcher().RenderViewsOf(objectID)
}

/**
 * @brief Returns the draw list of the current frame.
 */
func (e *Engine) Frame() []metadata.BatchDrawInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.systemManager.Batcher().DrawList()
}

/**
 * @brief Draws one frame through the renderer backend.
 */
func (e *Engine) DrawFrame() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clock.Update()
	currentTime := e.clock.Elapsed().Seconds()
	delta := currentTime - e.lastTime
	e.lastTime = currentTime

	return e.renderer.DrawFrame(e.systemManager.Batcher().DrawList(), delta)
}

// World returns the bounding volume of everything encoded so far.
func (e *Engine) World() math.Extents3D {
	return e.systemManager.World().Extents()
}

// WorldCenter is the reference point camera-relative rendering subtracts.
func (e *Engine) WorldCenter() math.Vec3 {
	return e.systemManager.World().Center()
}

func (e *Engine) Metrics() core.MetricsSnapshot {
	return e.metrics.Snapshot()
}

/**
 * @brief Reloads the configuration whenever path changes. Encoder and
 * material settings apply to batches built afterwards.
 */
func (e *Engine) WatchConfig(path string) error {
	w, err := config.NewWatcher(path, e.ApplyConfig)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.watcher != nil {
		e.watcher.Close()
	}
	e.watcher = w
	return nil
}

func (e *Engine) ApplyConfig(cfg *config.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = cfg
	core.SetLogLevel(cfg.LogLevel())
	e.systemManager.ApplyConfig(cfg)
	e.events.Fire(core.EVENT_CODE_CONFIG_RELOADED, cfg)
}

/**
 * @brief Drops the scene, every batch, the render view index and the world
 * extent.
 */
func (e *Engine) Unload() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.systemManager.Batcher().Clear()
	e.tree.Clear()
	e.events.Fire(core.EVENT_CODE_SCENE_CLEARED, nil)
}

func (e *Engine) Shutdown() error {
	e.mu.Lock()
	if e.currentStage == EngineStageShuttingDown {
		e.mu.Unlock()
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	w := e.watcher
	e.watcher = nil
	e.mu.Unlock()

	if w != nil {
		if err := w.Close(); err != nil {
			core.LogWarn("config watcher close: %s", err.Error())
		}
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return fmt.Errorf("system manager shutdown: %w", err)
	}
	e.clock.Stop()
	return e.renderer.Shutdown()
}
