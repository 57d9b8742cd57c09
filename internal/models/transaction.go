package models

import "github.com/shopspring/decimal"

// CalculatedTransaction is one payment in an engine output: From owes To
// the given amount. It appears both in the raw pairwise debt list and in
// the minimized settlement plan.
type CalculatedTransaction struct {
	// From is the person ID of the debtor.
	From string `json:"from"`

	// To is the person ID of the creditor.
	To string `json:"to"`

	// Amount is the payment amount, always strictly positive.
	Amount decimal.Decimal `json:"amount"`

	// ContributingExpenseIDs lists the expenses that produced this debt.
	// Populated only for pairwise (audit) transactions; the minimized plan
	// cannot attribute a payment to individual expenses.
	ContributingExpenseIDs []string `json:"contributingExpenseIds,omitempty"`

	// Pinned marks a transaction that came from a manual override rather
	// than the greedy matcher.
	Pinned bool `json:"pinned,omitempty"`
}

// PersonBalance pairs a person with their net position. Positive means the
// group owes them money, negative means they owe the group.
type PersonBalance struct {
	PersonID string          `json:"personId"`
	Balance  decimal.Decimal `json:"balance"`
}
