package engine

import (
	"sort"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ledgerlabs/splitledger/internal/models"
)

// dinnerExpense builds an equal split: one payer funds the whole bill and
// every participant owes the given share.
func dinnerExpense(id, payer, total string, shares map[string]string) models.Expense {
	exp := models.Expense{
		ID:          id,
		Total:       dec(total),
		SplitMethod: models.SplitEqual,
		PaidBy:      []models.PersonAmount{{PersonID: payer, Amount: dec(total)}},
	}
	keys := make([]string, 0, len(shares))
	for k := range shares {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, personID := range keys {
		exp.Shares = append(exp.Shares, models.PersonAmount{PersonID: personID, Amount: dec(shares[personID])})
	}
	return exp
}

func TestNetBalances(t *testing.T) {
	tests := []struct {
		name        string
		expenses    []models.Expense
		settlements []models.SettlementPayment
		validate    func(t *testing.T, balances map[string]decimal.Decimal)
	}{
		{
			name: "single expense paid by one person",
			expenses: []models.Expense{
				dinnerExpense("e1", "alice", "1000", map[string]string{
					"alice": "250", "bob": "250", "charlie": "250", "diana": "250",
				}),
			},
			validate: func(t *testing.T, balances map[string]decimal.Decimal) {
				approx(t, balances["alice"], dec("750"), "alice")
				approx(t, balances["bob"], dec("-250"), "bob")
				approx(t, balances["charlie"], dec("-250"), "charlie")
				approx(t, balances["diana"], dec("-250"), "diana")
			},
		},
		{
			name: "settlement shifts exactly the two parties involved",
			expenses: []models.Expense{
				dinnerExpense("e1", "alice", "300", map[string]string{
					"alice": "100", "bob": "100", "charlie": "100",
				}),
			},
			settlements: []models.SettlementPayment{
				{ID: "s1", DebtorID: "bob", CreditorID: "alice", Amount: dec("100"), Status: models.SettlementConfirmed},
			},
			validate: func(t *testing.T, balances map[string]decimal.Decimal) {
				approx(t, balances["alice"], dec("100"), "alice")
				approx(t, balances["bob"], dec("0"), "bob")
				approx(t, balances["charlie"], dec("-100"), "charlie")
			},
		},
		{
			name: "excluded expenses contribute nothing",
			expenses: []models.Expense{
				dinnerExpense("e1", "alice", "100", map[string]string{"alice": "50", "bob": "50"}),
				func() models.Expense {
					exp := dinnerExpense("e2", "bob", "9999", map[string]string{"alice": "9999"})
					exp.ExcludeFromSettlement = true
					return exp
				}(),
			},
			validate: func(t *testing.T, balances map[string]decimal.Decimal) {
				approx(t, balances["alice"], dec("50"), "alice")
				approx(t, balances["bob"], dec("-50"), "bob")
			},
		},
		{
			name: "person appearing only in settlements still gets a balance",
			settlements: []models.SettlementPayment{
				{ID: "s1", DebtorID: "erin", CreditorID: "frank", Amount: dec("25")},
			},
			validate: func(t *testing.T, balances map[string]decimal.Decimal) {
				approx(t, balances["erin"], dec("25"), "erin")
				approx(t, balances["frank"], dec("-25"), "frank")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := NetBalances(tt.expenses, tt.settlements)
			tt.validate(t, balances)

			if sum := BalanceSum(balances); sum.Abs().Cmp(models.Epsilon) > 0 {
				t.Errorf("balances sum to %s, want 0", sum)
			}
		})
	}
}

func TestSortedBalancesOrder(t *testing.T) {
	balances := map[string]decimal.Decimal{
		"charlie": dec("-1"),
		"alice":   dec("2"),
		"bob":     dec("-1"),
	}
	sorted := SortedBalances(balances)
	want := []string{"alice", "bob", "charlie"}
	for i, pb := range sorted {
		if pb.PersonID != want[i] {
			t.Fatalf("position %d = %s, want %s", i, pb.PersonID, want[i])
		}
	}
}
