package models

import "github.com/shopspring/decimal"

// SettlementStatus tracks the lifecycle of a recorded settlement payment.
type SettlementStatus string

const (
	SettlementConfirmed SettlementStatus = "confirmed"
	SettlementPending   SettlementStatus = "pending"
)

// SettlementPayment is an immutable historical record of money that has
// already changed hands outside the ledger. It reduces the debtor's owed
// amount and the creditor's receivable amount.
type SettlementPayment struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// DebtorID is the person who paid (settling up their debt).
	DebtorID string `json:"debtorId"`

	// CreditorID is the person who received the payment.
	CreditorID string `json:"creditorId"`

	// Amount is the money that changed hands.
	Amount decimal.Decimal `json:"amountSettled"`

	// SettledAt is the Unix timestamp when the payment happened.
	SettledAt int64 `json:"settledAt"`

	// Notes is an optional free-form description.
	Notes string `json:"notes,omitempty"`

	// Status is the lifecycle state of the record.
	Status SettlementStatus `json:"status"`
}

// ManualSettlementOverride is an operator-pinned transaction that must
// appear in the settlement plan regardless of what the greedy algorithm
// would otherwise choose.
type ManualSettlementOverride struct {
	// DebtorID is the person pinned as the payer.
	DebtorID string `json:"debtorId"`

	// CreditorID is the person pinned as the receiver.
	CreditorID string `json:"creditorId"`

	// Amount is the pinned payment amount.
	Amount decimal.Decimal `json:"amount"`
}
