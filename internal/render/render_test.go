package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/alexander-akhmetov/wayfinder/internal/catalog"
	"github.com/alexander-akhmetov/wayfinder/internal/check"
	"github.com/alexander-akhmetov/wayfinder/internal/kv"
	"github.com/alexander-akhmetov/wayfinder/internal/progress"
)

func snapshotFor(t *testing.T, values map[string]string) (string, *progress.Tracker) {
	t.Helper()
	store := kv.NewMemory()
	for k, v := range values {
		require.NoError(t, store.Set(k, v))
	}
	return "u1", progress.New(catalog.ListPhases(), check.NewEvaluator(store))
}

func TestSnapshot_Plain(t *testing.T) {
	user, tracker := snapshotFor(t, map[string]string{"planCompleted_u1": "true"})
	snap := tracker.ComputeProgress(user)

	var buf bytes.Buffer
	require.NoError(t, Snapshot(&buf, tracker.Phases(), snap, Options{Plain: true}))
	out := buf.String()

	assert.Contains(t, out, "Progress for u1")
	assert.Contains(t, out, "6% (1/16 tasks)")
	assert.Contains(t, out, MarkerCurrent+" Starting    1/4")
	assert.Contains(t, out, MarkerPending+" Building    0/4")
	assert.Contains(t, out, "Lay the groundwork")
	assert.Contains(t, out, "#")
	assert.Contains(t, out, "-")
	assert.NotContains(t, out, "\x1b[")
	assert.NotContains(t, out, TaskDone)
}

func TestSnapshot_Tasks(t *testing.T) {
	user, tracker := snapshotFor(t, map[string]string{
		"planCompleted_u1":   "true",
		"businessProfile_u1": `{"name": "Acme"}`,
		"goals_u1":           `["grow"]`,
		"completedSteps_u1":  `["business-registration"]`,
		"transactions_u1":    `[{"amount": 5}]`,
	})
	snap := tracker.ComputeProgress(user)

	var buf bytes.Buffer
	require.NoError(t, Snapshot(&buf, tracker.Phases(), snap, Options{Plain: true, Tasks: true}))
	out := buf.String()

	assert.Contains(t, out, MarkerComplete+" Starting")
	assert.Contains(t, out, MarkerCurrent+" Building")
	assert.Contains(t, out, TaskDone+" Write your business plan  /business-plan")
	assert.Contains(t, out, TaskDone+" Record your first transaction")
	assert.Contains(t, out, TaskOpen+" Open a business bank account")
	assert.Equal(t, 16, strings.Count(out, TaskDone)+strings.Count(out, TaskOpen))
}

func TestCatalog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Catalog(&buf, catalog.ListPhases(), Options{Plain: true}))
	out := buf.String()

	for _, want := range []string{"1. Starting", "2. Building", "3. Growing", "4. Maintaining", "[maintaining]"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "flag(planCompleted)")
	assert.Contains(t, out, "step(completedSteps: tax-filing|tax-return-filed)")
	assert.Contains(t, out, "16 tasks in 4 phases")
}

func TestPhaseMarkdown(t *testing.T) {
	p, ok := catalog.Phase("starting")
	require.True(t, ok)

	md := PhaseMarkdown(p)
	assert.True(t, strings.HasPrefix(md, "# Starting\n"))
	assert.Contains(t, md, "_Lay the groundwork_")
	assert.Contains(t, md, "## Tasks")
	assert.Contains(t, md, "1. **Write your business plan** (`business-plan`)")
	assert.Contains(t, md, "Go to `/business-plan`.")
}

func TestMarkdown(t *testing.T) {
	md := "# Starting\n\nSome text.\n"

	var plain bytes.Buffer
	require.NoError(t, Markdown(&plain, md, 80, true))
	assert.Equal(t, md, plain.String())

	var styled bytes.Buffer
	require.NoError(t, Markdown(&styled, md, 80, false))
	assert.Contains(t, styled.String(), "Starting")
}

func TestJSON(t *testing.T) {
	user, tracker := snapshotFor(t, map[string]string{"goals_u1": `["grow"]`})
	snap := tracker.ComputeProgress(user)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, snap, false))
	out := buf.String()

	require.True(t, gjson.Valid(out))
	assert.Equal(t, int64(6), gjson.Get(out, "overall_percent").Int())
	assert.Equal(t, int64(0), gjson.Get(out, "current_phase_index").Int())
	assert.True(t, gjson.Get(out, "phases.0.is_current").Bool())
	assert.Equal(t, "goals", gjson.Get(out, "phases.0.tasks.2.id").String())
	assert.True(t, gjson.Get(out, "phases.0.tasks.2.done").Bool())
	assert.Contains(t, out, "\n  ")
}
