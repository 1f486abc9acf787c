package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/wayfinder/internal/check"
	"github.com/alexander-akhmetov/wayfinder/internal/domain"
)

func TestListPhases_Shape(t *testing.T) {
	list := ListPhases()
	require.Len(t, list, 4)

	var names []string
	for _, p := range list {
		names = append(names, p.Name)
		assert.Len(t, p.Tasks, 4, "phase %s", p.Name)
	}
	assert.Equal(t, []string{"Starting", "Building", "Growing", "Maintaining"}, names)
	assert.Equal(t, 16, domain.TaskCount(list))
}

func TestListPhases_ValueIdentical(t *testing.T) {
	a := ListPhases()
	b := ListPhases()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("ListPhases() differs between calls (-first +second):\n%s", diff)
	}
}

func TestListPhases_ReturnsCopy(t *testing.T) {
	a := ListPhases()
	a[0].Name = "Mutated"
	a[0].Tasks[0].ID = "mutated"
	a[0].Tasks[3].Check.AnyOf[0] = "mutated"

	b := ListPhases()
	assert.Equal(t, "Starting", b[0].Name)
	assert.Equal(t, "business-plan", b[0].Tasks[0].ID)
	assert.Equal(t, "register-business", b[0].Tasks[3].Check.AnyOf[0])
}

func TestListPhases_FirstTaskIsBusinessPlan(t *testing.T) {
	task := ListPhases()[0].Tasks[0]
	assert.Equal(t, "business-plan", task.ID)
	assert.Equal(t, check.Flag("planCompleted"), task.Check)
	assert.Equal(t, "/business-plan", task.Target)
}

func TestListPhases_AllChecksValid(t *testing.T) {
	for _, p := range ListPhases() {
		for _, task := range p.Tasks {
			assert.NoError(t, task.Check.Validate(), "task %s", task.ID)
			assert.NotEmpty(t, task.Title, "task %s", task.ID)
			assert.NotEmpty(t, task.Target, "task %s", task.ID)
		}
	}
}

func TestLookup(t *testing.T) {
	task, idx, ok := Lookup("tax-filing")
	require.True(t, ok)
	assert.Equal(t, 3, idx)
	assert.Equal(t, check.Step("completedSteps", "tax-filing", "tax-return-filed"), task.Check)

	_, idx, ok = Lookup("nope")
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestPhase(t *testing.T) {
	p, ok := Phase("growing")
	require.True(t, ok)
	assert.Equal(t, "Growing", p.Name)

	_, ok = Phase("nope")
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "- id: [unclosed"},
		{"missing phase id", "- name: A\n"},
		{"duplicate phase", "- id: a\n- id: a\n"},
		{"missing task id", "- id: a\n  tasks:\n    - title: x\n      check: {kind: flag, namespace: n}\n"},
		{
			"duplicate task",
			"- id: a\n  tasks:\n    - id: t\n      check: {kind: flag, namespace: n}\n" +
				"- id: b\n  tasks:\n    - id: t\n      check: {kind: flag, namespace: n}\n",
		},
		{"bad check", "- id: a\n  tasks:\n    - id: t\n      check: {kind: step, namespace: n}\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	list, err := Parse([]byte("[]"))
	require.NoError(t, err)
	assert.Empty(t, list)
}
