package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/cuemby/drfsim/pkg/engine"
	"github.com/cuemby/drfsim/pkg/resource"
	"gopkg.in/yaml.v3"
)

// ErrOutOfRange mirrors engine.ErrOutOfRange for config-level validation: a
// negative alpha, beta, epsilon, schedule time, or task count found while
// loading a document, reported before engine.New ever sees it.
var ErrOutOfRange = errors.New("config: value out of range")

// Node is the YAML shape of one cluster node.
type Node struct {
	ID       int64           `yaml:"id"`
	Capacity resource.Vector `yaml:"capacity"`
}

// Application is the YAML shape of one application's prototype.
type Application struct {
	ID           int64           `yaml:"id"`
	Requirements resource.Vector `yaml:"requirements"`
	Duration     float64         `yaml:"duration"`
}

// Submission is the YAML shape of one submission schedule entry.
type Submission struct {
	Time     float64 `yaml:"time"`
	AppID    int64   `yaml:"app_id"`
	NumTasks int     `yaml:"num_tasks"`
}

// Preemption is the YAML shape of the tuning weights.
type Preemption struct {
	Alpha   float64 `yaml:"alpha"`
	Beta    float64 `yaml:"beta"`
	Epsilon float64 `yaml:"epsilon"`
}

// Document is the top-level shape of a drfsim cluster configuration file.
type Document struct {
	Dimension    int           `yaml:"dimension"`
	Nodes        []Node        `yaml:"nodes"`
	Applications []Application `yaml:"applications"`
	Schedule     []Submission  `yaml:"schedule"`
	Preemption   Preemption    `yaml:"preemption"`
}

// Load reads and parses a YAML document from path and validates it,
// returning the Document; EngineInputs converts it into the plain argument
// types engine.New accepts.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates a YAML document already read into memory. Split out from
// Load so tests and callers with an in-memory source (embedded fixtures, a
// config service) never need to touch the filesystem.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("config: parsing yaml: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Validate checks dimension consistency and non-negativity across the whole
// document, surfacing dimension mismatches and out-of-range values as
// ErrDimensionMismatch / ErrOutOfRange before any value reaches engine.New.
func (d Document) Validate() error {
	if d.Dimension < 0 {
		return fmt.Errorf("config: dimension must be >= 0, got %d: %w", d.Dimension, ErrOutOfRange)
	}

	for _, n := range d.Nodes {
		if len(n.Capacity) != d.Dimension {
			return fmt.Errorf("config: node %d capacity has dimension %d, want %d: %w",
				n.ID, len(n.Capacity), d.Dimension, resource.ErrDimensionMismatch)
		}
	}
	for _, a := range d.Applications {
		if len(a.Requirements) != d.Dimension {
			return fmt.Errorf("config: application %d requirements has dimension %d, want %d: %w",
				a.ID, len(a.Requirements), d.Dimension, resource.ErrDimensionMismatch)
		}
		if a.Duration <= 0 {
			return fmt.Errorf("config: application %d duration must be positive, got %g: %w",
				a.ID, a.Duration, ErrOutOfRange)
		}
	}
	for _, s := range d.Schedule {
		if s.Time < 0 {
			return fmt.Errorf("config: schedule entry for app %d has negative time %g: %w", s.AppID, s.Time, ErrOutOfRange)
		}
		if s.NumTasks < 0 {
			return fmt.Errorf("config: schedule entry for app %d has negative num_tasks %d: %w", s.AppID, s.NumTasks, ErrOutOfRange)
		}
	}

	p := d.Preemption
	if p.Alpha < 0 || p.Beta < 0 || p.Epsilon < 0 {
		return fmt.Errorf("config: preemption weights must be >= 0, got alpha=%g beta=%g epsilon=%g: %w",
			p.Alpha, p.Beta, p.Epsilon, ErrOutOfRange)
	}

	return nil
}

// EngineInputs converts a validated Document into the plain argument types
// engine.New accepts, with no unit conversion or reordering.
func (d Document) EngineInputs() ([]engine.NodeSpec, []engine.AppSpec, []engine.Submission, engine.Tuning) {
	nodes := make([]engine.NodeSpec, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = engine.NodeSpec{ID: n.ID, Capacity: n.Capacity.Clone()}
	}

	apps := make([]engine.AppSpec, len(d.Applications))
	for i, a := range d.Applications {
		apps[i] = engine.AppSpec{ID: a.ID, Requirements: a.Requirements.Clone(), Duration: a.Duration}
	}

	schedule := make([]engine.Submission, len(d.Schedule))
	for i, s := range d.Schedule {
		schedule[i] = engine.Submission{Time: s.Time, AppID: s.AppID, NumTasks: s.NumTasks}
	}

	tuning := engine.Tuning{Alpha: d.Preemption.Alpha, Beta: d.Preemption.Beta, Epsilon: d.Preemption.Epsilon}

	return nodes, apps, schedule, tuning
}
