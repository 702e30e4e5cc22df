package harness

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/touchbase/internal/docstore"
	"github.com/roach88/touchbase/internal/game"
)

// stateReader is the read side of the store final_state assertions need.
type stateReader interface {
	docstore.Reader
	Query(ctx context.Context, collection string, filters ...docstore.Filter) ([]docstore.Document, error)
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s", event.Step, event.Action)
			if event.As != "" {
				fmt.Fprintf(&buf, " as=%s", event.As)
			}
			if event.Member != "" {
				fmt.Fprintf(&buf, " member=%s", event.Member)
			}
			fmt.Fprintf(&buf, " -> %s", event.Status)
			if event.Error != "" {
				fmt.Fprintf(&buf, " (%s)", event.Error)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// assertTraceContains checks that a step with the action ran, narrowed to
// one player when As is set.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Action == assertion.Action && (assertion.As == "" || event.As == assertion.As) {
			return nil
		}
	}

	expected := "action " + assertion.Action
	if assertion.As != "" {
		expected += " as " + assertion.As
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceCount checks if the action appears exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Action == assertion.Action {
			count++
		}
	}

	if count != *assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("action %s appears %d times", assertion.Action, *assertion.Count),
			Actual:   fmt.Sprintf("appears %d times", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks stored documents in a collection.
func assertFinalState(ctx context.Context, st stateReader, scenario *Scenario, assertion Assertion) error {
	docs, err := finalStateDocs(ctx, st, scenario, assertion)
	if err != nil {
		return fmt.Errorf("final_state %s: %w", assertion.Collection, err)
	}

	if assertion.Count != nil && len(docs) != *assertion.Count {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%d documents in %s where %s", *assertion.Count, assertion.Collection, formatWhere(assertion.Where)),
			Actual:   fmt.Sprintf("%d documents", len(docs)),
		}
	}

	if len(assertion.Expect) == 0 {
		return nil
	}
	if len(docs) == 0 {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("a document in %s where %s", assertion.Collection, formatWhere(assertion.Where)),
			Actual:   "no matching documents",
		}
	}

	body, err := decodeBody(docs[0])
	if err != nil {
		return err
	}
	if mismatches := diffFields(body, assertion.Expect); len(mismatches) > 0 {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s/%s to match %v", assertion.Collection, docs[0].ID, assertion.Expect),
			Actual:   strings.Join(mismatches, "; "),
		}
	}
	return nil
}

// finalStateDocs returns the documents an assertion applies to.
// Without a where clause, games narrow to the scenario's game and
// consequences to the ones it produced.
func finalStateDocs(ctx context.Context, st stateReader, scenario *Scenario, assertion Assertion) ([]docstore.Document, error) {
	if len(assertion.Where) == 0 {
		switch assertion.Collection {
		case game.CollectionGames:
			doc, err := st.Get(ctx, game.CollectionGames, scenario.Game.ID)
			if err != nil {
				return nil, err
			}
			return []docstore.Document{doc}, nil
		case game.CollectionConsequences:
			return st.Query(ctx, game.CollectionConsequences, docstore.Where("fromGameId", scenario.Game.ID))
		}
	}

	keys := make([]string, 0, len(assertion.Where))
	for k := range assertion.Where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	filters := make([]docstore.Filter, 0, len(keys))
	for _, k := range keys {
		filters = append(filters, docstore.Where(k, assertion.Where[k]))
	}
	return st.Query(ctx, assertion.Collection, filters...)
}

// diffFields reports every expected field whose stored value differs.
func diffFields(actual, expected map[string]any) []string {
	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var mismatches []string
	for _, k := range keys {
		got, exists := actual[k]
		if !exists {
			mismatches = append(mismatches, fmt.Sprintf("%s: missing", k))
			continue
		}
		if !stateValuesEqual(expected[k], got) {
			mismatches = append(mismatches, fmt.Sprintf("%s: expected %v, got %v", k, expected[k], got))
		}
	}
	return mismatches
}

// formatWhere renders a where clause for error messages.
func formatWhere(where map[string]any) string {
	if len(where) == 0 {
		return "(all)"
	}
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s = %v", k, where[k])
	}
	return strings.Join(parts, " AND ")
}

// stateValuesEqual compares an expected YAML value with a decoded JSON value.
// JSON numbers decode as float64 while YAML integers decode as int.
func stateValuesEqual(expected, actual any) bool {
	if expected == nil && actual == nil {
		return true
	}
	if expected == nil || actual == nil {
		return false
	}

	switch exp := expected.(type) {
	case string:
		actualStr, ok := actual.(string)
		return ok && exp == actualStr
	case bool:
		actualBool, ok := actual.(bool)
		return ok && exp == actualBool
	case int:
		actualNum, ok := actual.(float64)
		return ok && float64(exp) == actualNum
	case int64:
		actualNum, ok := actual.(float64)
		return ok && float64(exp) == actualNum
	case []any:
		actualList, ok := actual.([]any)
		if !ok || len(actualList) != len(exp) {
			return false
		}
		for i := range exp {
			if !stateValuesEqual(exp[i], actualList[i]) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(expected, actual)
}

// EvaluateAssertions evaluates all of a scenario's assertions against the
// result and the store it ran in.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(ctx context.Context, st docstore.Store, scenario *Scenario, result *Result) []string {
	var errors []string

	for i, assertion := range scenario.Assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			if st == nil {
				err = fmt.Errorf("assertion[%d]: final_state requires a store", i)
			} else {
				err = assertFinalState(ctx, st, scenario, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
