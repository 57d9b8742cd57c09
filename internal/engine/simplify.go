package engine

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ledgerlabs/splitledger/internal/models"
)

// Plan is the minimized settlement output: Transactions zeroes every balance
// when the underlying ledger conserves money, with manually pinned
// transactions first. Outstanding lists any signed remainders the plan could
// not clear, which happens only when the input balances themselves do not
// sum to zero.
type Plan struct {
	Transactions []models.CalculatedTransaction
	Outstanding  []models.PersonBalance
}

// Simplify produces the minimum-count payment plan that settles the given
// net balances. Manual overrides are honored first as pinned transactions,
// then the remainder is cleared by greedily matching the largest creditor
// with the largest debtor. Ties in magnitude break alphabetically by person
// ID, making the whole plan deterministic and idempotent.
//
// The input map is never mutated; the greedy loop runs on a working copy.
func Simplify(balances map[string]decimal.Decimal, overrides []models.ManualSettlementOverride) Plan {
	working := make(map[string]decimal.Decimal, len(balances))
	for personID, balance := range balances {
		working[personID] = balance
	}

	var plan Plan
	for _, o := range resolveOverrides(balances, overrides) {
		plan.Transactions = append(plan.Transactions, models.CalculatedTransaction{
			From:   o.DebtorID,
			To:     o.CreditorID,
			Amount: o.Amount,
			Pinned: true,
		})
		// An override may push a party's balance through zero; the greedy
		// pass simply settles them on the other side afterwards.
		working[o.DebtorID] = working[o.DebtorID].Add(o.Amount)
		working[o.CreditorID] = working[o.CreditorID].Sub(o.Amount)
	}

	plan.Transactions = append(plan.Transactions, greedyMatch(working)...)

	for personID, balance := range working {
		if balance.Abs().Cmp(models.Epsilon) > 0 {
			plan.Outstanding = append(plan.Outstanding, models.PersonBalance{
				PersonID: personID,
				Balance:  balance,
			})
		}
	}
	sort.Slice(plan.Outstanding, func(i, j int) bool {
		return plan.Outstanding[i].PersonID < plan.Outstanding[j].PersonID
	})
	return plan
}

// resolveOverrides filters the override list down to entries usable as the
// pinned pre-pass: both parties must appear in the balance snapshot, the
// amount must be positive, and a (debtor, creditor) pair is counted at most
// once per invocation.
func resolveOverrides(balances map[string]decimal.Decimal, overrides []models.ManualSettlementOverride) []models.ManualSettlementOverride {
	seen := make(map[pairKey]bool, len(overrides))
	var resolved []models.ManualSettlementOverride
	for _, o := range overrides {
		if !o.Amount.IsPositive() {
			continue
		}
		if _, ok := balances[o.DebtorID]; !ok {
			slog.Warn("override references unknown debtor, skipping", "debtor_id", o.DebtorID)
			continue
		}
		if _, ok := balances[o.CreditorID]; !ok {
			slog.Warn("override references unknown creditor, skipping", "creditor_id", o.CreditorID)
			continue
		}
		k := pairKey{from: o.DebtorID, to: o.CreditorID}
		if seen[k] {
			slog.Warn("duplicate override for pair, skipping", "debtor_id", o.DebtorID, "creditor_id", o.CreditorID)
			continue
		}
		seen[k] = true
		resolved = append(resolved, o)
	}
	return resolved
}

// greedyMatch repeatedly pays the largest creditor from the largest debtor
// until neither side has anything left beyond Epsilon. working is mutated.
// With the small groups this engine serves, resorting each round is cheaper
// to reason about than a heap.
func greedyMatch(working map[string]decimal.Decimal) []models.CalculatedTransaction {
	var txs []models.CalculatedTransaction
	for {
		creditor, credit := largest(working, false)
		debtor, debt := largest(working, true)
		if creditor == "" || debtor == "" {
			return txs
		}

		amount := credit
		if debt.Cmp(amount) < 0 {
			amount = debt
		}
		txs = append(txs, models.CalculatedTransaction{
			From:   debtor,
			To:     creditor,
			Amount: amount,
		})
		working[debtor] = working[debtor].Add(amount)
		working[creditor] = working[creditor].Sub(amount)
	}
}

// largest returns the person with the biggest balance magnitude on one side
// of the ledger (debtors when negative is true), along with that magnitude.
// Equal magnitudes resolve to the alphabetically first person ID.
func largest(working map[string]decimal.Decimal, negative bool) (string, decimal.Decimal) {
	best := ""
	bestMag := decimal.Zero
	for personID, balance := range working {
		if negative == balance.IsPositive() {
			continue
		}
		mag := balance.Abs()
		if mag.Cmp(models.Epsilon) <= 0 {
			continue
		}
		switch mag.Cmp(bestMag) {
		case 1:
			best, bestMag = personID, mag
		case 0:
			if best == "" || personID < best {
				best, bestMag = personID, mag
			}
		}
	}
	return best, bestMag
}
