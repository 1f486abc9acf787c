// Package catalog holds the fixed onboarding journey: four ordered phases,
// each with ordered tasks and their completion checks.
//
// The journey is defined in the embedded phases.yaml and parsed once at
// init. It never changes for the life of the process.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/wayfinder/internal/domain"
)

//go:embed phases.yaml
var phasesYAML []byte

var phases = mustParse(phasesYAML)

// ListPhases returns the journey phases in order. Each call returns a fresh
// copy, so callers may modify the result freely.
func ListPhases() []domain.Phase {
	return clone(phases)
}

// Lookup finds a task by id. It returns the task, the index of its phase,
// and false if no task has that id.
func Lookup(taskID string) (domain.Task, int, bool) {
	for i, p := range phases {
		for _, t := range p.Tasks {
			if t.ID == taskID {
				return cloneTask(t), i, true
			}
		}
	}
	return domain.Task{}, -1, false
}

// Phase finds a phase by id.
func Phase(phaseID string) (domain.Phase, bool) {
	for _, p := range phases {
		if p.ID == phaseID {
			return clone([]domain.Phase{p})[0], true
		}
	}
	return domain.Phase{}, false
}

// Parse decodes a YAML phase list and validates it.
func Parse(data []byte) ([]domain.Phase, error) {
	var out []domain.Phase
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse phases: %w", err)
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks that phase and task ids are present and unique and that
// every check is well formed.
func Validate(list []domain.Phase) error {
	phaseIDs := make(map[string]bool)
	taskIDs := make(map[string]bool)
	for i, p := range list {
		if p.ID == "" {
			return fmt.Errorf("phase %d: missing id", i)
		}
		if phaseIDs[p.ID] {
			return fmt.Errorf("phase %q: duplicate id", p.ID)
		}
		phaseIDs[p.ID] = true

		for j, t := range p.Tasks {
			if t.ID == "" {
				return fmt.Errorf("phase %q task %d: missing id", p.ID, j)
			}
			if taskIDs[t.ID] {
				return fmt.Errorf("task %q: duplicate id", t.ID)
			}
			taskIDs[t.ID] = true
			if err := t.Check.Validate(); err != nil {
				return fmt.Errorf("task %q: %w", t.ID, err)
			}
		}
	}
	return nil
}

func mustParse(data []byte) []domain.Phase {
	list, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded phases: %v", err))
	}
	return list
}

func clone(list []domain.Phase) []domain.Phase {
	out := make([]domain.Phase, len(list))
	for i, p := range list {
		out[i] = p
		out[i].Tasks = make([]domain.Task, len(p.Tasks))
		for j, t := range p.Tasks {
			out[i].Tasks[j] = cloneTask(t)
		}
	}
	return out
}

func cloneTask(t domain.Task) domain.Task {
	t.Check.AnyOf = append([]string(nil), t.Check.AnyOf...)
	return t
}
