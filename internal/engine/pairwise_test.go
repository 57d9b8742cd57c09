package engine

import (
	"reflect"
	"testing"

	"github.com/ledgerlabs/splitledger/internal/models"
)

func TestPairwiseDebts(t *testing.T) {
	tests := []struct {
		name        string
		expenses    []models.Expense
		settlements []models.SettlementPayment
		validate    func(t *testing.T, debts []models.CalculatedTransaction)
	}{
		{
			name: "sharers owe the single payer their full share",
			expenses: []models.Expense{
				dinnerExpense("e1", "alice", "300", map[string]string{
					"alice": "100", "bob": "100", "charlie": "100",
				}),
			},
			validate: func(t *testing.T, debts []models.CalculatedTransaction) {
				if len(debts) != 2 {
					t.Fatalf("edges = %d, want 2", len(debts))
				}
				// sorted by (from, to): bob->alice, charlie->alice
				if debts[0].From != "bob" || debts[0].To != "alice" {
					t.Errorf("edge 0 = %s->%s, want bob->alice", debts[0].From, debts[0].To)
				}
				approx(t, debts[0].Amount, dec("100"), "bob->alice")
				if debts[1].From != "charlie" || debts[1].To != "alice" {
					t.Errorf("edge 1 = %s->%s, want charlie->alice", debts[1].From, debts[1].To)
				}
				approx(t, debts[1].Amount, dec("100"), "charlie->alice")
				if !reflect.DeepEqual(debts[0].ContributingExpenseIDs, []string{"e1"}) {
					t.Errorf("contributing ids = %v, want [e1]", debts[0].ContributingExpenseIDs)
				}
			},
		},
		{
			name: "debt splits across payers in proportion to funding",
			expenses: []models.Expense{
				{
					ID:          "e1",
					Total:       dec("100"),
					SplitMethod: models.SplitUnequal,
					PaidBy: []models.PersonAmount{
						{PersonID: "alice", Amount: dec("60")},
						{PersonID: "bob", Amount: dec("40")},
					},
					Shares: []models.PersonAmount{{PersonID: "charlie", Amount: dec("100")}},
				},
			},
			validate: func(t *testing.T, debts []models.CalculatedTransaction) {
				if len(debts) != 2 {
					t.Fatalf("edges = %d, want 2", len(debts))
				}
				approx(t, debts[0].Amount, dec("60"), "charlie->alice")
				if debts[0].To != "alice" {
					t.Errorf("edge 0 to = %s, want alice", debts[0].To)
				}
				approx(t, debts[1].Amount, dec("40"), "charlie->bob")
				if debts[1].To != "bob" {
					t.Errorf("edge 1 to = %s, want bob", debts[1].To)
				}
			},
		},
		{
			name: "opposite directions net to the dominant one",
			expenses: []models.Expense{
				dinnerExpense("e1", "alice", "200", map[string]string{"alice": "100", "bob": "100"}),
				dinnerExpense("e2", "bob", "80", map[string]string{"alice": "40", "bob": "40"}),
			},
			validate: func(t *testing.T, debts []models.CalculatedTransaction) {
				if len(debts) != 1 {
					t.Fatalf("edges = %d, want 1", len(debts))
				}
				if debts[0].From != "bob" || debts[0].To != "alice" {
					t.Errorf("edge = %s->%s, want bob->alice", debts[0].From, debts[0].To)
				}
				approx(t, debts[0].Amount, dec("60"), "net amount")
			},
		},
		{
			name: "recorded settlement reduces the outstanding pair amount",
			expenses: []models.Expense{
				dinnerExpense("e1", "alice", "200", map[string]string{"alice": "100", "bob": "100"}),
			},
			settlements: []models.SettlementPayment{
				{ID: "s1", DebtorID: "bob", CreditorID: "alice", Amount: dec("30")},
			},
			validate: func(t *testing.T, debts []models.CalculatedTransaction) {
				if len(debts) != 1 {
					t.Fatalf("edges = %d, want 1", len(debts))
				}
				approx(t, debts[0].Amount, dec("70"), "outstanding bob->alice")
			},
		},
		{
			name: "over-settled pair flips direction",
			expenses: []models.Expense{
				dinnerExpense("e1", "alice", "200", map[string]string{"alice": "100", "bob": "100"}),
			},
			settlements: []models.SettlementPayment{
				{ID: "s1", DebtorID: "bob", CreditorID: "alice", Amount: dec("120")},
			},
			validate: func(t *testing.T, debts []models.CalculatedTransaction) {
				if len(debts) != 1 {
					t.Fatalf("edges = %d, want 1", len(debts))
				}
				if debts[0].From != "alice" || debts[0].To != "bob" {
					t.Errorf("edge = %s->%s, want alice->bob", debts[0].From, debts[0].To)
				}
				approx(t, debts[0].Amount, dec("20"), "overpayment")
			},
		},
		{
			name: "excluded expense produces no edges",
			expenses: []models.Expense{
				func() models.Expense {
					exp := dinnerExpense("e1", "alice", "200", map[string]string{"bob": "200"})
					exp.ExcludeFromSettlement = true
					return exp
				}(),
			},
			validate: func(t *testing.T, debts []models.CalculatedTransaction) {
				if len(debts) != 0 {
					t.Fatalf("edges = %d, want 0", len(debts))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debts := PairwiseDebts(tt.expenses, tt.settlements)
			tt.validate(t, debts)
		})
	}
}

func TestPairwiseDebtsDeterministic(t *testing.T) {
	expenses := []models.Expense{
		dinnerExpense("e1", "alice", "300", map[string]string{"alice": "100", "bob": "100", "charlie": "100"}),
		dinnerExpense("e2", "bob", "90", map[string]string{"alice": "30", "bob": "30", "charlie": "30"}),
		dinnerExpense("e3", "charlie", "60", map[string]string{"alice": "20", "bob": "20", "charlie": "20"}),
	}
	first := PairwiseDebts(expenses, nil)
	for i := 0; i < 10; i++ {
		again := PairwiseDebts(expenses, nil)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run:\nfirst: %+v\nagain: %+v", i, first, again)
		}
	}
}
