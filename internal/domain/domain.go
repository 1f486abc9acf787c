// Package domain defines the onboarding journey model shared across
// wayfinder: phases and tasks, and the derived progress snapshot.
package domain

import "github.com/alexander-akhmetov/wayfinder/internal/check"

// Task is a single trackable action within a phase.
type Task struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	// Target is the route where the task is completed.
	Target string      `yaml:"target" json:"target"`
	Check  check.Check `yaml:"check" json:"check"`
}

// Phase is one ordered stage of the journey. Task order is display order.
type Phase struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Subtitle    string `yaml:"subtitle" json:"subtitle"`
	Description string `yaml:"description" json:"description"`
	Tasks       []Task `yaml:"tasks" json:"tasks"`
}

// TaskStatus records whether one task's check held.
type TaskStatus struct {
	ID   string `json:"id"`
	Done bool   `json:"done"`
}

// PhaseStatus is the derived completion state of one phase.
type PhaseStatus struct {
	PhaseID        string       `json:"phase_id"`
	Name           string       `json:"name"`
	CompletedTasks int          `json:"completed_tasks"`
	TotalTasks     int          `json:"total_tasks"`
	IsComplete     bool         `json:"is_complete"`
	IsCurrent      bool         `json:"is_current"`
	Tasks          []TaskStatus `json:"tasks"`
}

// Snapshot is the progress of one user at one point in time.
type Snapshot struct {
	UserID            string        `json:"user_id"`
	CurrentPhaseIndex int           `json:"current_phase_index"`
	CompletedTasks    int           `json:"completed_tasks"`
	TotalTasks        int           `json:"total_tasks"`
	OverallPercent    int           `json:"overall_percent"`
	Phases            []PhaseStatus `json:"phases"`
}

// Current returns the current phase status, or nil for an empty snapshot.
func (s *Snapshot) Current() *PhaseStatus {
	if s.CurrentPhaseIndex < 0 || s.CurrentPhaseIndex >= len(s.Phases) {
		return nil
	}
	return &s.Phases[s.CurrentPhaseIndex]
}

// AllPhasesComplete returns true if every phase is complete.
func (s *Snapshot) AllPhasesComplete() bool {
	for _, p := range s.Phases {
		if !p.IsComplete {
			return false
		}
	}
	return len(s.Phases) > 0
}

// FirstIncompleteIndex returns the 0-based index of the first incomplete
// phase, or -1 if all phases are complete or there are none.
func FirstIncompleteIndex(phases []PhaseStatus) int {
	for i := range phases {
		if !phases[i].IsComplete {
			return i
		}
	}
	return -1
}

// TaskCount returns the total number of tasks across phases.
func TaskCount(phases []Phase) int {
	n := 0
	for _, p := range phases {
		n += len(p.Tasks)
	}
	return n
}
