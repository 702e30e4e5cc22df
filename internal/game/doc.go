// Package game holds the TouchBase domain model: the Game and Consequence
// documents, the game state machine, and the pure functions that decide how a
// game advances.
//
// # State Machine
//
//	active ──► guessing_complete ──► completed
//	   └────────────────────────────────┘
//
// A game leaves active once both guesses are in. It reaches completed once
// both reveals are in, possibly skipping guessing_complete when the last
// guess and the last reveal land together. completed is terminal.
//
// # Critical Patterns
//
// Slot ownership:
//   - Each player writes only their own guess and reveal fields
//   - GuessUpdate and RevealUpdate return field-level update sets, so the two
//     players' writes commute
//
// At-most-once resolution:
//   - Evaluate returns StepResolve only while outcome is null
//   - Callers apply the step inside a transaction that re-reads the game
//
// Purity:
//   - Evaluate and Resolve never touch storage, clocks or randomness
package game
