package harness

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/touchbase/internal/ident"
)

// Snapshot is the golden form of a scenario run: the trace plus the final
// game and consequence bodies, without timestamps, content-addressed ids
// or null fields.
type Snapshot struct {
	ScenarioName string
	Trace        []TraceEvent
	Game         map[string]any
	Consequences []map[string]any
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON serialization.
// This is required because ident.MarshalCanonical only handles plain JSON values.
func (s *Snapshot) toCanonicalMap() (map[string]any, error) {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"step":   event.Step,
			"action": event.Action,
			"status": event.Status,
		}
		if event.As != "" {
			eventMap["as"] = event.As
		}
		if event.Member != "" {
			eventMap["member"] = event.Member
		}
		if event.Error != "" {
			eventMap["error"] = event.Error
		}
		traceList[i] = eventMap
	}

	gameMap, err := stripVolatile(s.Game)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	// Consequence ids are hashes, so order by content instead.
	type keyed struct {
		key  []byte
		body map[string]any
	}
	sorted := make([]keyed, 0, len(s.Consequences))
	for i, c := range s.Consequences {
		stripped, err := stripVolatile(c)
		if err != nil {
			return nil, fmt.Errorf("consequences[%d]: %w", i, err)
		}
		key, err := ident.MarshalCanonical(stripped)
		if err != nil {
			return nil, fmt.Errorf("consequences[%d]: %w", i, err)
		}
		sorted = append(sorted, keyed{key: key, body: stripped})
	}
	slices.SortFunc(sorted, func(a, b keyed) int { return bytes.Compare(a.key, b.key) })

	consequenceList := make([]any, len(sorted))
	for i, c := range sorted {
		consequenceList[i] = c.body
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
		"game":          gameMap,
		"consequences":  consequenceList,
	}, nil
}

// stripVolatile drops nulls, "id" and every "...At" timestamp field, and
// turns integral JSON numbers into int64.
func stripVolatile(obj map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if v == nil || k == "id" || strings.HasSuffix(k, "At") {
			continue
		}
		clean, err := plainValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = clean
	}
	return out, nil
}

func plainValue(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		return stripVolatile(val)
	case []any:
		list := make([]any, 0, len(val))
		for i, elem := range val {
			if elem == nil {
				continue
			}
			clean, err := plainValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list = append(list, clean)
		}
		return list, nil
	case float64:
		if val != math.Trunc(val) {
			return nil, fmt.Errorf("non-integral number %v", val)
		}
		return int64(val), nil
	default:
		return v, nil
	}
}

// MarshalSnapshot serializes a result as canonical JSON.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		Game:         result.Game,
		Consequences: result.Consequences,
	}
	canonicalMap, err := snapshot.toCanonicalMap()
	if err != nil {
		return nil, err
	}
	return ident.MarshalCanonical(canonicalMap)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshotJSON, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshotJSON)

	return nil
}
