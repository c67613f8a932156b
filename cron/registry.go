package cron

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
)

var ErrLocked = errors.New("cron/registry: locked")

// Job holds schedule and run function.
type Job struct {
	Schedule string
	Run      func(ctx context.Context) error
}

// Registry holds named jobs. It locks on the first call to Jobs so the set
// that was scheduled is the set that runs.
type Registry struct {
	mu     sync.Mutex
	jobs   map[string]Job
	locked bool
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]Job)}
}

// Register adds a job. Names are case-insensitive.
func (r *Registry) Register(name, schedule string, run func(ctx context.Context) error) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("cron/registry: job %s: bad schedule %q: %w", name, schedule, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locked {
		return ErrLocked
	}
	name = strings.ToLower(name)
	if _, ok := r.jobs[name]; ok {
		return fmt.Errorf("cron/registry: duplicate job %s", name)
	}
	r.jobs[name] = Job{Schedule: schedule, Run: run}
	return nil
}

// Lookup finds a job by name.
func (r *Registry) Lookup(name string) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[strings.ToLower(name)]
	return j, ok
}

// Jobs returns a copy of all jobs and locks the registry.
func (r *Registry) Jobs() map[string]Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = true
	out := make(map[string]Job, len(r.jobs))
	for k, v := range r.jobs {
		out[k] = v
	}
	return out
}

func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.jobs))
	for k := range r.jobs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
