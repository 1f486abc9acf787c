package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/alexander-akhmetov/wayfinder/internal/catalog"
	"github.com/alexander-akhmetov/wayfinder/internal/record"
)

// setupEnv points config and state at a temp dir and returns the state dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("WAYFINDER_STATE_DIR", filepath.Join(dir, "state"))
	for _, k := range []string{"WAYFINDER_STORE_BACKEND", "WAYFINDER_STORE_PATH", "WAYFINDER_DEBUG", "NO_COLOR"} {
		t.Setenv(k, "")
	}
	return filepath.Join(dir, "state")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPhasesCmd(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "phases", "--plain")
	require.NoError(t, err)
	for _, want := range []string{"1. Starting", "2. Building", "3. Growing", "4. Maintaining", "business-plan"} {
		assert.Contains(t, out, want)
	}
}

func TestPhasesCmd_JSON(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "phases", "--json")
	require.NoError(t, err)
	require.True(t, gjson.Valid(out))
	assert.Equal(t, int64(4), gjson.Get(out, "#").Int())
	assert.Equal(t, "Maintaining", gjson.Get(out, "3.name").String())
	assert.Equal(t, "flag", gjson.Get(out, "0.tasks.0.check.kind").String())
}

func TestPhasesShowCmd(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "phases", "show", "growing", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "# Growing")
	assert.Contains(t, out, "**Add your first customer**")

	_, err = runCLI(t, "phases", "show", "nope")
	assert.ErrorContains(t, err, `unknown phase "nope"`)
}

func TestPhasesCmds_NoColorOutput(t *testing.T) {
	setupEnv(t)
	t.Setenv("NO_COLOR", "1")

	for _, args := range [][]string{
		{"phases", "show", "starting"},
		{"phases"},
		{"phases", "--json"},
	} {
		out, err := runCLI(t, args...)
		require.NoError(t, err, "%v", args)
		assert.NotContains(t, out, "\x1b[", "%v", args)
	}
}

func TestLoadConfig_NoColorForcesPlain(t *testing.T) {
	setupEnv(t)
	t.Setenv("NO_COLOR", "1")

	cfg, err := loadConfig(&globalFlags{})
	require.NoError(t, err)
	assert.True(t, cfg.Output.Plain)
}

func TestResolveOutput(t *testing.T) {
	setupEnv(t)
	cfg, err := loadConfig(&globalFlags{})
	require.NoError(t, err)
	require.False(t, cfg.Output.Plain)

	plain, width := resolveOutput(&bytes.Buffer{}, cfg)
	assert.True(t, plain)
	assert.Equal(t, 80, width)

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	plain, _ = resolveOutput(f, cfg)
	assert.True(t, plain, "regular files are not terminals")
}

func TestStatusCmd_FreshUser(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "status", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress for alice")
	assert.Contains(t, out, "0% (0/16 tasks)")
	assert.Contains(t, out, "▸ Starting")
}

func TestCompleteThenStatus(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "complete", "alice", "business-plan", "goals")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Write your business plan (Starting)")
	assert.Contains(t, out, "✓ Set your first goals (Starting)")
	assert.Contains(t, out, "Progress: 13% (2/16 tasks), current phase: Starting")
	assert.NotContains(t, out, "Journey complete.")

	out, err = runCLI(t, "status", "alice", "--json")
	require.NoError(t, err)
	assert.Equal(t, int64(2), gjson.Get(out, "completed_tasks").Int())
	assert.Equal(t, int64(13), gjson.Get(out, "overall_percent").Int())
	assert.True(t, gjson.Get(out, "phases.0.tasks.0.done").Bool())

	out, err = runCLI(t, "status", "bob", "--json")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gjson.Get(out, "completed_tasks").Int())
}

func TestCompleteCmd_WholePhase(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "complete", "alice", "business-plan", "business-profile", "goals", "register-business")
	require.NoError(t, err)
	assert.Contains(t, out, "current phase: Building")

	out, err = runCLI(t, "status", "alice", "--tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Starting")
	assert.Contains(t, out, "▸ Building")
	assert.Contains(t, out, "[x] Register your business")
}

func TestCompleteCmd_EveryTask(t *testing.T) {
	setupEnv(t)

	args := []string{"complete", "alice"}
	for _, p := range catalog.ListPhases() {
		for _, task := range p.Tasks {
			args = append(args, task.ID)
		}
	}

	out, err := runCLI(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Progress: 100% (16/16 tasks), current phase: Maintaining")
	assert.Contains(t, out, "Journey complete.")
}

func TestCompleteCmd_UnknownTask(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "complete", "alice", "world-domination")
	assert.ErrorIs(t, err, record.ErrUnknownTask)
}

func TestMarkCmds(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "mark", "step", "alice", "tax-return-filed")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote completedSteps_alice")

	_, err = runCLI(t, "mark", "flag", "alice", "growthPlanCompleted")
	require.NoError(t, err)
	_, err = runCLI(t, "mark", "entry", "alice", "budgets", `{"month": "2026-01"}`)
	require.NoError(t, err)

	out, err = runCLI(t, "status", "alice", "--json")
	require.NoError(t, err)
	assert.Equal(t, int64(3), gjson.Get(out, "phases.3.completed_tasks").Int())
	assert.Equal(t, int64(0), gjson.Get(out, "current_phase_index").Int())

	_, err = runCLI(t, "mark", "reset", "alice", "budgets")
	require.NoError(t, err)
	out, err = runCLI(t, "status", "alice", "--json")
	require.NoError(t, err)
	assert.Equal(t, int64(2), gjson.Get(out, "phases.3.completed_tasks").Int())

	_, err = runCLI(t, "mark", "entry", "alice", "budgets", "{nope")
	assert.ErrorIs(t, err, record.ErrInvalidEntry)
}

func TestSQLiteBackend(t *testing.T) {
	stateDir := setupEnv(t)
	dbPath := filepath.Join(stateDir, "progress.db")

	_, err := runCLI(t, "--backend", "sqlite", "--store", dbPath, "complete", "alice", "first-customer")
	require.NoError(t, err)

	out, err := runCLI(t, "--backend", "sqlite", "--store", dbPath, "status", "alice", "--json")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.Get(out, "phases.2.completed_tasks").Int())

	// The file store never saw the write.
	out, err = runCLI(t, "status", "alice", "--json")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gjson.Get(out, "completed_tasks").Int())
}

func TestStatusCmd_WatchValidation(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "status", "alice", "--watch", "--json")
	assert.ErrorContains(t, err, "cannot be combined")

	_, err = runCLI(t, "--backend", "memory", "status", "alice", "--watch")
	assert.ErrorContains(t, err, "needs the file backend")
}

func TestUnknownBackendFlag(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "--backend", "redis", "status", "alice")
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestConfigShowCmd(t *testing.T) {
	stateDir := setupEnv(t)

	out, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Wayfinder Configuration")
	assert.Contains(t, out, "  - embedded")
	assert.Contains(t, out, "backend: file")
	assert.Contains(t, out, filepath.Join(stateDir, "store.json"))
}
