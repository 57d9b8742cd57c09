package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ledgerlabs/splitledger/internal/models"
)

// pairKey identifies a directed debt edge.
type pairKey struct {
	from string
	to   string
}

// PairwiseDebts derives the raw bilateral debts implied by each expense:
// every sharer owes every payer a slice of their share proportional to how
// much that payer funded the bill. Opposite directions are netted, recorded
// settlements for the exact pair are subtracted, and the result is sorted by
// (from, to) person ID so identical inputs always yield identical output.
//
// This is the audit view. It is not minimized and must never be used as the
// settlement plan.
func PairwiseDebts(expenses []models.Expense, settlements []models.SettlementPayment) []models.CalculatedTransaction {
	amounts := make(map[pairKey]decimal.Decimal)
	sources := make(map[pairKey][]string)

	for i := range expenses {
		exp := &expenses[i]
		if exp.ExcludeFromSettlement || !exp.Total.IsPositive() {
			continue
		}
		c := NormalizeExpense(exp)
		for sharer, owed := range c.Owed {
			for payer, paid := range c.Paid {
				if sharer == payer {
					continue
				}
				slice := owed.Mul(paid).DivRound(exp.Total, 6)
				if !slice.IsPositive() {
					continue
				}
				k := pairKey{from: sharer, to: payer}
				amounts[k] = amounts[k].Add(slice)
				sources[k] = appendExpenseID(sources[k], exp.ID)
			}
		}
	}

	// Settlements are directed credits against the same edges.
	for _, s := range settlements {
		k := pairKey{from: s.DebtorID, to: s.CreditorID}
		amounts[k] = amounts[k].Sub(s.Amount)
	}

	return netAndSort(amounts, sources)
}

// netAndSort collapses each unordered pair to a single edge in the dominant
// direction and orders the result deterministically.
func netAndSort(amounts map[pairKey]decimal.Decimal, sources map[pairKey][]string) []models.CalculatedTransaction {
	seen := make(map[pairKey]bool, len(amounts))
	var out []models.CalculatedTransaction

	for k := range amounts {
		canonical := k
		if canonical.to < canonical.from {
			canonical = pairKey{from: k.to, to: k.from}
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true

		reverse := pairKey{from: canonical.to, to: canonical.from}
		net := amounts[canonical].Sub(amounts[reverse])

		edge := canonical
		if net.IsNegative() {
			edge = reverse
			net = net.Neg()
		}
		if net.Cmp(models.Epsilon) <= 0 {
			continue
		}

		ids := append([]string(nil), sources[edge]...)
		sort.Strings(ids)
		out = append(out, models.CalculatedTransaction{
			From:                   edge.from,
			To:                     edge.to,
			Amount:                 net,
			ContributingExpenseIDs: ids,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

func appendExpenseID(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
