// Package mfbench provides uniform access to multi-fidelity
// hyperparameter-optimization benchmarks: synthetic closed-form
// functions, tables of recorded training runs, and surrogate
// predictors, all behind one contract of sampling, fidelity-indexed
// queries, and trajectory sweeps.
//
// Benchmark families register themselves at init time; importing the
// benchmarks package activates every family shipped with the module:
//
//	import (
//	    "github.com/spboyer/mfbench"
//	    _ "github.com/spboyer/mfbench/benchmarks"
//	)
//
//	b, err := mfbench.Get("mfh3_good", mfbench.WithSeed(1))
package mfbench

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Options carries the construction knobs a benchmark factory receives.
type Options struct {
	// Seed initializes the benchmark's sampling stream.
	Seed int64
	// Task selects one task of a multi-task entry.
	Task string
	// DataDir locates table files and model weights for families
	// that load recorded data.
	DataDir string
}

// GetOption adjusts benchmark construction.
type GetOption func(*Options)

// WithSeed sets the sampling seed.
func WithSeed(seed int64) GetOption {
	return func(o *Options) { o.Seed = seed }
}

// WithTask selects a task of a multi-task benchmark.
func WithTask(task string) GetOption {
	return func(o *Options) { o.Task = task }
}

// WithDataDir locates recorded tables and model weights.
func WithDataDir(dir string) GetOption {
	return func(o *Options) { o.DataDir = dir }
}

// Entry describes one registered benchmark family member.
type Entry struct {
	// Name is the canonical registry name.
	Name string
	// Alias is an optional short name resolving to the same entry.
	Alias string
	// Tasks lists the selectable tasks; empty for single-task
	// benchmarks. The first task is the default.
	Tasks []string
	// Description is a one-line summary for listings.
	Description string
	// NeedsData marks families that require Options.DataDir.
	NeedsData bool
	// New constructs the benchmark.
	New func(Options) (Benchmark, error)
}

// Descriptor identifies one constructible benchmark: an entry name
// plus, for multi-task entries, one of its tasks.
type Descriptor struct {
	Name        string `json:"name"`
	Alias       string `json:"alias,omitempty"`
	Task        string `json:"task,omitempty"`
	Description string `json:"description,omitempty"`
	NeedsData   bool   `json:"needs_data,omitempty"`
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Entry)
	aliases    = make(map[string]string)
)

// Register adds a benchmark entry. It is intended to be called from
// family init functions and panics on empty or duplicate names, like
// database/sql driver registration.
func Register(e Entry) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if e.Name == "" {
		panic("mfbench: Register with empty name")
	}
	if e.New == nil {
		panic(fmt.Sprintf("mfbench: Register %q with nil factory", e.Name))
	}
	if _, dup := registry[e.Name]; dup {
		panic(fmt.Sprintf("mfbench: Register called twice for %q", e.Name))
	}
	if _, dup := aliases[e.Name]; dup {
		panic(fmt.Sprintf("mfbench: name %q collides with a registered alias", e.Name))
	}
	if e.Alias != "" {
		if _, dup := registry[e.Alias]; dup {
			panic(fmt.Sprintf("mfbench: alias %q collides with a registered name", e.Alias))
		}
		if _, dup := aliases[e.Alias]; dup {
			panic(fmt.Sprintf("mfbench: alias %q registered twice", e.Alias))
		}
		aliases[e.Alias] = e.Name
	}
	registry[e.Name] = e
}

// Lookup resolves a name or alias to its entry.
func Lookup(name string) (Entry, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	e, ok := registry[name]
	return e, ok
}

// Get constructs a benchmark by name or alias.
//
//	b, err := mfbench.Get("lcbench", mfbench.WithTask("3945"), mfbench.WithSeed(7))
//
// Unknown names and tasks return an error wrapping ErrNotFound.
func Get(name string, opts ...GetOption) (Benchmark, error) {
	e, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("benchmark %q: %w", name, ErrNotFound)
	}

	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	if len(e.Tasks) == 0 {
		if o.Task != "" {
			return nil, fmt.Errorf("benchmark %q takes no task, got %q", e.Name, o.Task)
		}
	} else if o.Task == "" {
		o.Task = e.Tasks[0]
	} else if !slices.Contains(e.Tasks, o.Task) {
		return nil, fmt.Errorf("benchmark %q task %q: %w", e.Name, o.Task, ErrNotFound)
	}

	if e.NeedsData && o.DataDir == "" {
		return nil, fmt.Errorf("benchmark %q needs a data directory", e.Name)
	}

	b, err := e.New(o)
	if err != nil {
		return nil, fmt.Errorf("constructing benchmark %q: %w", e.Name, err)
	}
	return b, nil
}

// Available enumerates every constructible benchmark, sorted by name
// and task. Multi-task entries contribute one descriptor per task.
func Available() []Descriptor {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var out []Descriptor
	for _, e := range registry {
		if len(e.Tasks) == 0 {
			out = append(out, Descriptor{
				Name:        e.Name,
				Alias:       e.Alias,
				Description: e.Description,
				NeedsData:   e.NeedsData,
			})
			continue
		}
		for _, task := range e.Tasks {
			out = append(out, Descriptor{
				Name:        e.Name,
				Alias:       e.Alias,
				Task:        task,
				Description: e.Description,
				NeedsData:   e.NeedsData,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Task < out[j].Task
	})
	return out
}

// Names returns the registered canonical names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
