// Package progress derives a user's progress snapshot from the journey
// phases and the completion checks of their tasks.
//
// Snapshots are recomputed on every call. Nothing is cached, since the
// backing store may change between calls.
package progress

import (
	"math"

	"github.com/alexander-akhmetov/wayfinder/internal/check"
	"github.com/alexander-akhmetov/wayfinder/internal/domain"
)

// Evaluator decides whether a check holds for a user.
type Evaluator interface {
	Complete(c check.Check, userID string) bool
}

// Tracker computes snapshots for a fixed list of phases.
type Tracker struct {
	phases    []domain.Phase
	evaluator Evaluator
}

// New returns a Tracker over phases. The phases are used as is and must not
// be modified afterwards.
func New(phases []domain.Phase, evaluator Evaluator) *Tracker {
	return &Tracker{phases: phases, evaluator: evaluator}
}

// Phases returns the phases the tracker evaluates.
func (t *Tracker) Phases() []domain.Phase {
	return t.phases
}

// ComputeProgress evaluates every task check for userID and returns the
// resulting snapshot. Unknown users simply have no completed tasks.
func (t *Tracker) ComputeProgress(userID string) domain.Snapshot {
	return Compute(t.phases, func(task domain.Task) bool {
		return t.evaluator.Complete(task.Check, userID)
	}, userID)
}

// Compute aggregates task completion into a snapshot, calling done once per
// task in catalog order. done reports whether a task is complete.
//
// The current phase is the first incomplete one, or the last phase when all
// are complete. With no phases the snapshot has CurrentPhaseIndex -1.
func Compute(phases []domain.Phase, done func(domain.Task) bool, userID string) domain.Snapshot {
	snap := domain.Snapshot{
		UserID:            userID,
		CurrentPhaseIndex: -1,
		Phases:            make([]domain.PhaseStatus, 0, len(phases)),
	}

	for _, p := range phases {
		st := domain.PhaseStatus{
			PhaseID:    p.ID,
			Name:       p.Name,
			TotalTasks: len(p.Tasks),
			Tasks:      make([]domain.TaskStatus, 0, len(p.Tasks)),
		}
		for _, task := range p.Tasks {
			ok := done(task)
			if ok {
				st.CompletedTasks++
			}
			st.Tasks = append(st.Tasks, domain.TaskStatus{ID: task.ID, Done: ok})
		}
		st.IsComplete = st.CompletedTasks == st.TotalTasks

		snap.CompletedTasks += st.CompletedTasks
		snap.TotalTasks += st.TotalTasks
		snap.Phases = append(snap.Phases, st)
	}

	snap.CurrentPhaseIndex = domain.FirstIncompleteIndex(snap.Phases)
	if snap.CurrentPhaseIndex < 0 {
		snap.CurrentPhaseIndex = len(snap.Phases) - 1
	}
	if snap.CurrentPhaseIndex >= 0 {
		snap.Phases[snap.CurrentPhaseIndex].IsCurrent = true
	}
	snap.OverallPercent = Percent(snap.CompletedTasks, snap.TotalTasks)

	return snap
}

// Percent returns completed/total as a whole percentage rounded half up,
// or 0 when total is 0.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
