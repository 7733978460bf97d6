// Package jobs runs named background tasks on fixed intervals, such as
// pruning old validation runs.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Func is the work of one job run
type Func func(ctx context.Context) error

// Config holds the schedule of a job
type Config struct {
	// Enabled determines if the job should run
	Enabled bool `json:"enabled"`
	// Interval between runs. The first run happens at Start.
	Interval time.Duration `json:"interval"`
}

type job struct {
	fn     Func
	config Config
	runs   int
	last   error
}

// Info provides read-only information about a job
type Info struct {
	Name     string        `json:"name"`
	Enabled  bool          `json:"enabled"`
	Interval time.Duration `json:"interval"`
	Runs     int           `json:"runs"`
	LastErr  string        `json:"last_error,omitempty"`
}

// Registry manages registered jobs and their polling loops
type Registry struct {
	mu     sync.RWMutex
	jobs   map[string]*job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *zap.SugaredLogger
}

// NewRegistry creates a new job registry
func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]*job),
		log:  zap.S().Named("jobs"),
	}
}

// Register adds a job to the registry
func (r *Registry) Register(name string, fn Func, config Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}
	if config.Enabled && config.Interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}

	r.jobs[name] = &job{fn: fn, config: config}
	r.log.Infow("Registered job", "job", name, "interval", config.Interval, "enabled", config.Enabled)
	return nil
}

// Start begins the polling loop of every enabled job
func (r *Registry) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ctx, r.cancel = context.WithCancel(ctx)

	for name, j := range r.jobs {
		if !j.config.Enabled {
			r.log.Debugw("Job is disabled, skipping", "job", name)
			continue
		}
		r.startPollingLoop(name, j)
	}
}

// Stop cancels all loops and waits for running jobs to return
func (r *Registry) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// Trigger runs a job once, outside its schedule
func (r *Registry) Trigger(ctx context.Context, name string) error {
	r.mu.RLock()
	j, exists := r.jobs[name]
	r.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	return r.run(ctx, name, j)
}

// List returns information about registered jobs, sorted by name
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.jobs))
	for name, j := range r.jobs {
		info := Info{
			Name:     name,
			Enabled:  j.config.Enabled,
			Interval: j.config.Interval,
			Runs:     j.runs,
		}
		if j.last != nil {
			info.LastErr = j.last.Error()
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(a, b int) bool { return infos[a].Name < infos[b].Name })
	return infos
}

// startPollingLoop starts a goroutine that runs the job on schedule
func (r *Registry) startPollingLoop(name string, j *job) {
	ctx := r.ctx
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		if err := r.run(ctx, name, j); err != nil {
			r.log.Warnw("Initial run failed", "job", name, "error", err)
		}

		ticker := time.NewTicker(j.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.log.Debugw("Stopping polling loop", "job", name)
				return
			case <-ticker.C:
				if err := r.run(ctx, name, j); err != nil {
					r.log.Warnw("Run failed", "job", name, "error", err)
				}
			}
		}
	}()

	r.log.Infow("Started polling loop", "job", name, "interval", j.config.Interval)
}

func (r *Registry) run(ctx context.Context, name string, j *job) error {
	err := j.fn(ctx)

	r.mu.Lock()
	j.runs++
	j.last = err
	r.mu.Unlock()

	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}
	return nil
}
