package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ledgerlabs/splitledger/internal/models"
)

// NetBalances folds every active expense and every settlement payment into
// one net balance per person. Positive means the group owes them money,
// negative means they owe the group. When all expense records are
// consistent the balances sum to zero.
func NetBalances(expenses []models.Expense, settlements []models.SettlementPayment) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)

	for i := range expenses {
		exp := &expenses[i]
		if exp.ExcludeFromSettlement {
			continue
		}
		c := NormalizeExpense(exp)
		for personID, amount := range c.Paid {
			balances[personID] = balances[personID].Add(amount)
		}
		for personID, amount := range c.Owed {
			balances[personID] = balances[personID].Sub(amount)
		}
	}

	// A settlement forgives debt and consumes a receivable: the debtor's
	// position improves, the creditor's receivable shrinks.
	for _, s := range settlements {
		balances[s.DebtorID] = balances[s.DebtorID].Add(s.Amount)
		balances[s.CreditorID] = balances[s.CreditorID].Sub(s.Amount)
	}

	return balances
}

// SortedBalances converts a balance map to a slice ordered by person ID so
// repeated runs serialize identically.
func SortedBalances(balances map[string]decimal.Decimal) []models.PersonBalance {
	out := make([]models.PersonBalance, 0, len(balances))
	for personID, balance := range balances {
		out = append(out, models.PersonBalance{PersonID: personID, Balance: balance})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PersonID < out[j].PersonID
	})
	return out
}

// BalanceSum returns the total of all balances. Anything beyond Epsilon
// indicates a conservation violation in the underlying records.
func BalanceSum(balances map[string]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b)
	}
	return sum
}
