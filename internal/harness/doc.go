// Package harness runs scripted game scenarios against the real engine.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: both_correct
//	description: "Both players guess right and share a joint consequence"
//	community:
//	  id: c1
//	  members: [alice, bob, carol, dave]
//	game:
//	  player1: alice
//	  player2: bob
//	steps:
//	  - action: guess
//	    as: alice
//	    member: carol
//	    expect: { status: active }
//	  - action: complete
//	    as: alice
//	    consequence: 0
//	    expect_error: FORBIDDEN
//	assertions:
//	  - type: final_state
//	    collection: games
//	    expect: { status: completed, outcome: both_correct }
//
// # Step Actions
//
//   - guess, reveal: SubmitGuess / SubmitActualContact as the given player
//   - check: CheckProgress
//   - autofill: AutoFillBot
//   - complete: CompleteConsequence on the game's n-th consequence
//
// # Assertion Types
//
//   - trace_contains: a step with the given action (and player) ran
//   - trace_count: an action ran exactly N times
//   - final_state: documents matching where in a collection have the
//     expected field values
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory SQLite store with the CUE schema
// validator, a deterministic clock, a fixed game id and a bot random source
// seeded from the scenario. Golden snapshots leave out timestamps and
// content-addressed ids so they read as plain game records.
package harness
