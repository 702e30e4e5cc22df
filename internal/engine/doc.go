// Package engine implements the TouchBase game resolution engine.
//
// A Service receives player actions (guesses, reveals, consequence
// completions), applies them to the stored game, and advances the game
// through its state machine. All writes go through a docstore.Store.
//
// ARCHITECTURE:
//
// Action Flow:
// 1. The handler opens a store transaction and re-reads the game
// 2. A guarded game.Update is built for the caller's slot
// 3. game.Evaluate inspects the updated game
// 4. If resolution is due, consequences are created and the game is
//    completed in the same transaction, as one write
// 5. After commit, the bot simulator runs for games against a simulated
//    opponent
//
// CRITICAL PATTERNS:
//
// At-most-once resolution:
// The completion transaction re-reads the game and only resolves while
// outcome is null. SQLite IMMEDIATE transactions serialize writers, so a
// second evaluator observes the committed outcome and writes nothing.
//
// Idempotent consequences:
// Consequence ids are content-addressed (ident.ConsequenceID) and created
// with insert-if-absent, so re-running resolution never duplicates them.
//
// Bounded retries:
// Transactions that lose to a concurrent writer are retried from a fresh
// read up to MaxTxAttempts times, then surface TRANSACTION_CONFLICT.
//
// Injected nondeterminism:
// Clock, id generator, random source and logger are all injected.
package engine
