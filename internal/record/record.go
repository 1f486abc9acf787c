// Package record writes completion facts into the key/value store using the
// same key conventions the completion checks read.
package record

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/alexander-akhmetov/wayfinder/internal/catalog"
	"github.com/alexander-akhmetov/wayfinder/internal/check"
	"github.com/alexander-akhmetov/wayfinder/internal/debug"
	"github.com/alexander-akhmetov/wayfinder/internal/kv"
)

// StepsNamespace is where the list of completed step ids is kept.
const StepsNamespace = "completedSteps"

var (
	// ErrEmptyID is returned when a user id, namespace or step id is empty.
	ErrEmptyID = errors.New("empty id")
	// ErrUnknownTask is returned by Complete for a task id not in the catalog.
	ErrUnknownTask = errors.New("unknown task")
	// ErrInvalidEntry is returned by AddEntry when the entry is not JSON.
	ErrInvalidEntry = errors.New("entry is not valid JSON")
)

// Recorder performs read-modify-write updates against a store. Updates made
// through one Recorder are serialized; concurrent writers in other
// processes are not coordinated.
type Recorder struct {
	store kv.Store
	mu    sync.Mutex
	now   func() time.Time
}

// New returns a Recorder writing to store.
func New(store kv.Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// MarkFlowFinished records that the flow stored under namespace was
// finished by userID.
func (r *Recorder) MarkFlowFinished(namespace, userID string) error {
	if namespace == "" || userID == "" {
		return ErrEmptyID
	}
	return r.set(kv.Key(namespace, userID), "true")
}

// AddEntry appends entry (raw JSON) to the list stored under namespace. A
// missing, malformed or non-list value is replaced by a new list.
func (r *Recorder) AddEntry(namespace, userID, entry string) error {
	if namespace == "" || userID == "" {
		return ErrEmptyID
	}
	if !gjson.Valid(entry) {
		return ErrInvalidEntry
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := kv.Key(namespace, userID)
	list, err := r.list(key)
	if err != nil {
		return err
	}
	list, err = sjson.SetRaw(list, "-1", entry)
	if err != nil {
		return fmt.Errorf("append to %q: %w", key, err)
	}
	return r.setLocked(key, list)
}

// MarkStepComplete adds stepID to the user's completed steps. Recording a
// step twice is a no-op.
func (r *Recorder) MarkStepComplete(userID, stepID string) error {
	if userID == "" || stepID == "" {
		return ErrEmptyID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := kv.Key(StepsNamespace, userID)
	list, err := r.list(key)
	if err != nil {
		return err
	}
	for _, s := range gjson.Parse(list).Array() {
		if s.Type == gjson.String && s.Str == stepID {
			return nil
		}
	}
	list, err = sjson.Set(list, "-1", stepID)
	if err != nil {
		return fmt.Errorf("append to %q: %w", key, err)
	}
	return r.setLocked(key, list)
}

// Reset clears the value stored under namespace for userID.
func (r *Recorder) Reset(namespace, userID string) error {
	if namespace == "" || userID == "" {
		return ErrEmptyID
	}
	return r.set(kv.Key(namespace, userID), "null")
}

// Complete records whatever makes the catalog task taskID hold for userID.
// Step tasks record their first acceptable step id; collection tasks get a
// timestamped placeholder entry.
func (r *Recorder) Complete(userID, taskID string) error {
	task, _, ok := catalog.Lookup(taskID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTask, taskID)
	}

	c := task.Check
	switch c.Kind {
	case check.KindFlag:
		return r.MarkFlowFinished(c.Namespace, userID)
	case check.KindNonEmpty:
		entry, err := placeholderEntry(task.ID, r.now())
		if err != nil {
			return fmt.Errorf("build entry: %w", err)
		}
		return r.AddEntry(c.Namespace, userID, entry)
	case check.KindStep:
		if c.Namespace != StepsNamespace {
			return fmt.Errorf("task %q: steps namespace %q not supported", taskID, c.Namespace)
		}
		return r.MarkStepComplete(userID, c.AnyOf[0])
	default:
		return fmt.Errorf("task %q: unknown check kind %q", taskID, c.Kind)
	}
}

// placeholderEntry is the object Complete appends to collection tasks.
func placeholderEntry(taskID string, at time.Time) (string, error) {
	entry, err := sjson.Set("{}", "recorded_at", at.UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sjson.Set(entry, "task", taskID)
}

// list returns the JSON array stored at key, or "[]" when the key is
// missing or does not hold an array.
func (r *Recorder) list(key string) (string, error) {
	raw, ok, err := r.store.Get(key)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", key, err)
	}
	if !ok {
		return "[]", nil
	}
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsArray() {
		debug.L().Debug("record: replacing non-list value", zap.String("key", key))
		return "[]", nil
	}
	return raw, nil
}

func (r *Recorder) set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setLocked(key, value)
}

func (r *Recorder) setLocked(key, value string) error {
	if err := r.store.Set(key, value); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	debug.L().Debug("record: wrote", zap.String("key", key))
	return nil
}
