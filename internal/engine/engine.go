// Package engine implements the settlement computation core: it turns an
// immutable snapshot of expenses, settlement payments, and manual overrides
// into net balances, raw pairwise debts, and a minimum-transaction
// settlement plan. Every function is pure and deterministic; identical
// snapshots always produce identical results, which the verification layer
// relies on when diffing recomputed output against what was shown to users.
package engine

import (
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlabs/splitledger/internal/metrics"
	"github.com/ledgerlabs/splitledger/internal/models"
)

// ErrNilSnapshot is returned when Compute is handed no snapshot at all.
// Routine data irregularities inside a snapshot never produce errors.
var ErrNilSnapshot = errors.New("engine: nil snapshot")

// Snapshot is the immutable input tuple for one engine invocation. The
// caller is responsible for reading all collections at a single consistent
// point in time; a torn read breaks the conservation invariant even though
// the engine behaves correctly.
type Snapshot struct {
	People      []models.Person
	Expenses    []models.Expense
	Settlements []models.SettlementPayment
	Overrides   []models.ManualSettlementOverride
}

// Result bundles the three engine outputs, all derived from the same
// snapshot. Consumers must treat every field as read-only.
type Result struct {
	// Balances is each person's net position, sorted by person ID.
	Balances []models.PersonBalance

	// BalanceByPerson is the same data keyed for lookup.
	BalanceByPerson map[string]decimal.Decimal

	// Pairwise is the raw bilateral debt list for audit views.
	Pairwise []models.CalculatedTransaction

	// Plan is the minimized settlement plan, pinned overrides first.
	Plan []models.CalculatedTransaction

	// Outstanding holds signed remainders the plan could not clear.
	Outstanding []models.PersonBalance
}

// Compute runs the full pipeline: normalize, aggregate, resolve pairwise
// debts, and simplify. It never mutates the snapshot and allocates a fresh
// Result on every call, so concurrent callers need no locking.
func Compute(snap *Snapshot) (*Result, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	start := time.Now()

	balances := NetBalances(snap.Expenses, snap.Settlements)
	plan := Simplify(balances, snap.Overrides)

	res := &Result{
		Balances:        SortedBalances(balances),
		BalanceByPerson: balances,
		Pairwise:        PairwiseDebts(snap.Expenses, snap.Settlements),
		Plan:            plan.Transactions,
		Outstanding:     plan.Outstanding,
	}

	elapsed := time.Since(start)
	metrics.ComputeDuration.Observe(elapsed.Seconds())
	slog.Debug("engine compute finished",
		"people", len(snap.People),
		"expenses", len(snap.Expenses),
		"settlements", len(snap.Settlements),
		"plan_transactions", len(res.Plan),
		"duration_ms", elapsed.Milliseconds(),
	)
	return res, nil
}
