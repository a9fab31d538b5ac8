package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/stratum/engine/containers"
	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

/**
 * @brief Runs payload-producing jobs on background workers. Results are held
 * in a bounded queue until the owning goroutine drains them, so completion
 * callbacks never run concurrently with batching or drawing.
 */
type JobSystem struct {
	numWorkers int
	jobQueue   chan metadata.JobTask
	wg         sync.WaitGroup
	// jobs submitted whose result is not queued yet
	pending sync.WaitGroup

	// guards jobQueue against sends after close
	submitMu sync.RWMutex

	mu      sync.Mutex
	notFull *sync.Cond
	results *containers.RingQueue[metadata.JobResultEntry]
	closed  bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = fmt.Errorf("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int, maxResults int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}
	if maxResults <= 0 {
		maxResults = metadata.MAX_JOB_RESULTS
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan metadata.JobTask, channelSize),
		results:    containers.NewRingQueue[metadata.JobResultEntry](maxResults),
	}
	js.notFull = sync.NewCond(&js.mu)

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				result, err := job.OnStart()
				if err != nil {
					core.LogError("job %s failed: %s", job.Name, err.Error())
				}
				js.storeResult(metadata.JobResultEntry{Task: job, Result: result, Err: err})
				js.pending.Done()
			}
		}()
	}
}

// storeResult blocks while the result queue is full. After shutdown results
// are dropped.
func (js *JobSystem) storeResult(entry metadata.JobResultEntry) {
	js.mu.Lock()
	defer js.mu.Unlock()
	for js.results.IsFull() && !js.closed {
		js.notFull.Wait()
	}
	if js.closed {
		core.LogWarn("dropping result of job %s: job system is shut down", entry.Task.Name)
		return
	}
	_ = js.results.Enqueue(entry)
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the job queue is full.
 */
func (js *JobSystem) Submit(jt metadata.JobTask) error {
	if jt.OnStart == nil {
		return fmt.Errorf("job %s has no OnStart", jt.Name)
	}
	js.submitMu.RLock()
	defer js.submitMu.RUnlock()

	js.mu.Lock()
	closed := js.closed
	js.mu.Unlock()
	if closed {
		return ErrJobSystemClosed
	}

	js.pending.Add(1)
	js.jobQueue <- jt
	return nil
}

/**
 * @brief Hands every finished job to its callbacks on the calling goroutine.
 * Should happen once an update cycle.
 * @return The number of results delivered.
 */
func (js *JobSystem) Drain() int {
	js.mu.Lock()
	entries := make([]metadata.JobResultEntry, 0, js.results.Len())
	for !js.results.IsEmpty() {
		entry, _ := js.results.Dequeue()
		entries = append(entries, entry)
	}
	js.notFull.Broadcast()
	js.mu.Unlock()

	for _, entry := range entries {
		if entry.Err != nil {
			if entry.Task.OnFailure != nil {
				entry.Task.OnFailure(entry.Err)
			}
			continue
		}
		if entry.Task.OnComplete != nil {
			entry.Task.OnComplete(entry.Result)
		}
	}
	return len(entries)
}

/**
 * @brief Blocks until every submitted job has produced its result. The
 * result queue must be able to hold them, or another goroutine must drain.
 */
func (js *JobSystem) Wait() {
	js.pending.Wait()
}

/**
 * @brief Shuts the job system down. Queued jobs still run; their results
 * are dropped.
 */
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	if js.closed {
		js.mu.Unlock()
		return nil
	}
	js.closed = true
	js.notFull.Broadcast()
	js.mu.Unlock()

	js.submitMu.Lock()
	close(js.jobQueue)
	js.submitMu.Unlock()

	js.wg.Wait()
	return nil
}
