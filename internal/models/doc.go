// Package models defines the core domain types for the settlement engine.
//
// # Models
//
//   - Person: a participant in the shared ledger
//   - Expense: a recorded cost with one of three split methods
//   - Item: a line item on an itemwise expense
//   - SettlementPayment: money that has already changed hands
//   - ManualSettlementOverride: an operator-pinned settlement transaction
//   - CalculatedTransaction: one payment in an engine output
//
// All monetary values are decimal.Decimal, never floats. Persons and records
// are identified by UUID-format strings; relationships use ID strings rather
// than pointers to avoid circular references.
//
// The engine treats every model as an immutable snapshot: nothing in this
// package is mutated after construction, and engine outputs are always
// freshly allocated.
package models
