// Package check implements task completion checks. A check is plain data
// (a kind, a namespace and, for step checks, the acceptable step ids) and
// is interpreted against a key/value store by an Evaluator.
package check

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/alexander-akhmetov/wayfinder/internal/debug"
	"github.com/alexander-akhmetov/wayfinder/internal/kv"
)

// Kind identifies how a stored value is interpreted.
type Kind string

const (
	// KindFlag holds when the value is JSON true.
	KindFlag Kind = "flag"
	// KindNonEmpty holds when the value is a non-empty array or object,
	// or any other non-null JSON value.
	KindNonEmpty Kind = "non_empty"
	// KindStep holds when the value is an array containing one of AnyOf.
	KindStep Kind = "step"
)

// Check describes a completion predicate.
type Check struct {
	Kind      Kind     `yaml:"kind" json:"kind"`
	Namespace string   `yaml:"namespace" json:"namespace"`
	AnyOf     []string `yaml:"any_of,omitempty" json:"any_of,omitempty"`
}

// Flag returns a check that a named flow was marked finished.
func Flag(namespace string) Check {
	return Check{Kind: KindFlag, Namespace: namespace}
}

// NonEmpty returns a check that a named collection has at least one entry.
func NonEmpty(namespace string) Check {
	return Check{Kind: KindNonEmpty, Namespace: namespace}
}

// Step returns a check that the list stored under namespace contains at
// least one of the given step ids.
func Step(namespace string, anyOf ...string) Check {
	return Check{Kind: KindStep, Namespace: namespace, AnyOf: anyOf}
}

// Key returns the store key this check reads for userID.
func (c Check) Key(userID string) string {
	return kv.Key(c.Namespace, userID)
}

// Validate reports whether the check is well formed.
func (c Check) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("check %q: empty namespace", c.Kind)
	}
	switch c.Kind {
	case KindFlag, KindNonEmpty:
		return nil
	case KindStep:
		if len(c.AnyOf) == 0 {
			return fmt.Errorf("step check %q: no step ids", c.Namespace)
		}
		return nil
	default:
		return fmt.Errorf("unknown check kind %q", c.Kind)
	}
}

func (c Check) String() string {
	if c.Kind == KindStep {
		return fmt.Sprintf("%s(%s: %s)", c.Kind, c.Namespace, strings.Join(c.AnyOf, "|"))
	}
	return fmt.Sprintf("%s(%s)", c.Kind, c.Namespace)
}

// Evaluator interprets checks against a store.
type Evaluator struct {
	store kv.Reader
}

// NewEvaluator returns an Evaluator reading from store.
func NewEvaluator(store kv.Reader) *Evaluator {
	return &Evaluator{store: store}
}

// Complete reports whether c holds for userID. It never fails: a missing
// key, a store error, a value that is not JSON or a value of the wrong
// shape all yield false.
func (e *Evaluator) Complete(c Check, userID string) bool {
	key := c.Key(userID)
	raw, ok, err := e.store.Get(key)
	if err != nil {
		debug.L().Debug("check: store read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if !gjson.Valid(raw) {
		debug.L().Debug("check: malformed value", zap.String("key", key))
		return false
	}

	v := gjson.Parse(raw)
	switch c.Kind {
	case KindFlag:
		return v.Type == gjson.True
	case KindNonEmpty:
		return nonEmpty(v)
	case KindStep:
		return containsAny(v, c.AnyOf)
	default:
		debug.L().Debug("check: unknown kind", zap.String("kind", string(c.Kind)))
		return false
	}
}

func nonEmpty(v gjson.Result) bool {
	switch {
	case v.Type == gjson.Null:
		return false
	case v.IsArray(), v.IsObject():
		found := false
		v.ForEach(func(_, _ gjson.Result) bool {
			found = true
			return false
		})
		return found
	default:
		return true
	}
}

func containsAny(v gjson.Result, ids []string) bool {
	if !v.IsArray() {
		return false
	}
	found := false
	v.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String && slices.Contains(ids, item.Str) {
			found = true
		}
		return !found
	})
	return found
}
