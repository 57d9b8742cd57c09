// Package verify independently recomputes the sums behind every expense
// record and the global conservation invariant, reporting pass/fail per
// record. The engine itself never rejects malformed data, it normalizes
// best-effort; this layer is where inconsistency becomes visible.
package verify

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ledgerlabs/splitledger/internal/engine"
	"github.com/ledgerlabs/splitledger/internal/metrics"
	"github.com/ledgerlabs/splitledger/internal/models"
)

// ViolationKind classifies what an expense record got wrong.
type ViolationKind string

const (
	// KindPaidSum: paid-by entries do not sum to the expense total.
	KindPaidSum ViolationKind = "paid_sum"

	// KindShareSum: shares plus celebration do not sum to the total.
	KindShareSum ViolationKind = "share_sum"

	// KindItemSum: item prices do not sum to the total before the
	// celebration adjustment.
	KindItemSum ViolationKind = "item_sum"

	// KindEmptyShare: an item has a positive price but nobody to share
	// it, silently losing value.
	KindEmptyShare ViolationKind = "empty_share"

	// KindConservation: the snapshot's net balances do not sum to zero.
	KindConservation ViolationKind = "conservation"

	// KindUnsettled: applying the settlement plan does not zero every
	// balance.
	KindUnsettled ViolationKind = "unsettled"
)

// Violation describes one failed check.
type Violation struct {
	Kind     ViolationKind   `json:"kind"`
	Detail   string          `json:"detail"`
	Delta    decimal.Decimal `json:"delta"`
	ItemID   string          `json:"itemId,omitempty"`
	PersonID string          `json:"personId,omitempty"`
}

// RecordResult is the verdict for one expense record.
type RecordResult struct {
	ExpenseID  string      `json:"expenseId"`
	Pass       bool        `json:"pass"`
	Violations []Violation `json:"violations,omitempty"`
}

// Report is the full verification output for one snapshot.
type Report struct {
	Records []RecordResult `json:"records"`

	// Global holds snapshot-level violations (conservation, unsettled
	// plan remainder).
	Global []Violation `json:"global,omitempty"`

	// Pass is true when every record and every global check passed.
	Pass bool `json:"pass"`

	RecordsChecked int `json:"recordsChecked"`
	RecordsFailed  int `json:"recordsFailed"`
}

// Check verifies every expense record in the snapshot and the global
// invariants of the computed result. It mutates neither input.
func Check(snap *engine.Snapshot, res *engine.Result) *Report {
	report := &Report{Pass: true}
	if snap == nil || res == nil {
		report.Pass = false
		return report
	}

	for i := range snap.Expenses {
		rr := checkExpense(&snap.Expenses[i])
		report.Records = append(report.Records, rr)
		report.RecordsChecked++
		if !rr.Pass {
			report.RecordsFailed++
			report.Pass = false
			for _, v := range rr.Violations {
				metrics.InvariantViolations.WithLabelValues(string(v.Kind)).Inc()
				slog.Warn("expense invariant violation",
					"expense_id", rr.ExpenseID,
					"kind", v.Kind,
					"detail", v.Detail,
				)
			}
		}
	}

	if v, ok := checkConservation(res); !ok {
		report.Global = append(report.Global, v)
		report.Pass = false
		metrics.ConservationViolations.Inc()
		slog.Warn("conservation violation", "delta", v.Delta)
	}
	if v, ok := checkFullSettlement(res); !ok {
		report.Global = append(report.Global, v)
		report.Pass = false
	}

	return report
}

func checkExpense(exp *models.Expense) RecordResult {
	rr := RecordResult{ExpenseID: exp.ID, Pass: true}
	fail := func(v Violation) {
		rr.Pass = false
		rr.Violations = append(rr.Violations, v)
	}

	paidSum := decimal.Zero
	for _, p := range exp.PaidBy {
		paidSum = paidSum.Add(p.Amount)
	}
	if delta := paidSum.Sub(exp.Total); delta.Abs().Cmp(models.Epsilon) > 0 {
		fail(Violation{
			Kind:   KindPaidSum,
			Detail: fmt.Sprintf("paid %s vs total %s", paidSum, exp.Total),
			Delta:  delta,
		})
	}

	// Compare owed against total through the normalizer so itemwise
	// records are checked on their derived shares.
	c := engine.NormalizeExpense(exp)
	owedSum := decimal.Zero
	for _, amount := range c.Owed {
		owedSum = owedSum.Add(amount)
	}
	if delta := owedSum.Sub(exp.Total); delta.Abs().Cmp(models.Epsilon) > 0 {
		fail(Violation{
			Kind:   KindShareSum,
			Detail: fmt.Sprintf("owed %s vs total %s", owedSum, exp.Total),
			Delta:  delta,
		})
	}

	if exp.SplitMethod == models.SplitItemwise {
		itemSum := decimal.Zero
		for _, item := range exp.Items {
			itemSum = itemSum.Add(item.Price)
			if item.Price.Cmp(models.Epsilon) > 0 && len(item.SharedBy) == 0 {
				fail(Violation{
					Kind:   KindEmptyShare,
					Detail: fmt.Sprintf("item %q has price %s but no sharers", item.Name, item.Price),
					Delta:  item.Price,
					ItemID: item.ID,
				})
			}
		}
		if delta := itemSum.Sub(exp.Total); delta.Abs().Cmp(models.Epsilon) > 0 {
			fail(Violation{
				Kind:   KindItemSum,
				Detail: fmt.Sprintf("items %s vs total %s", itemSum, exp.Total),
				Delta:  delta,
			})
		}
	}

	return rr
}

func checkConservation(res *engine.Result) (Violation, bool) {
	sum := engine.BalanceSum(res.BalanceByPerson)
	if sum.Abs().Cmp(models.Epsilon) <= 0 {
		return Violation{}, true
	}
	return Violation{
		Kind:   KindConservation,
		Detail: fmt.Sprintf("net balances sum to %s, want 0", sum),
		Delta:  sum,
	}, false
}

// checkFullSettlement replays the plan against the balances and requires
// every position to land within Epsilon of zero.
func checkFullSettlement(res *engine.Result) (Violation, bool) {
	remaining := make(map[string]decimal.Decimal, len(res.BalanceByPerson))
	for personID, balance := range res.BalanceByPerson {
		remaining[personID] = balance
	}
	for _, tx := range res.Plan {
		remaining[tx.From] = remaining[tx.From].Add(tx.Amount)
		remaining[tx.To] = remaining[tx.To].Sub(tx.Amount)
	}
	for personID, balance := range remaining {
		if balance.Abs().Cmp(models.Epsilon) > 0 {
			// Outstanding remainders reported by the engine are expected
			// leftovers of a non-conserving snapshot, not plan defects.
			if hasOutstanding(res, personID) {
				continue
			}
			return Violation{
				Kind:     KindUnsettled,
				Detail:   fmt.Sprintf("person %s left with %s after plan", personID, balance),
				Delta:    balance,
				PersonID: personID,
			}, false
		}
	}
	return Violation{}, true
}

func hasOutstanding(res *engine.Result, personID string) bool {
	for _, o := range res.Outstanding {
		if o.PersonID == personID {
			return true
		}
	}
	return false
}
