package models

import "github.com/shopspring/decimal"

// SplitMethod describes how an expense is divided among participants.
type SplitMethod string

const (
	// SplitEqual divides the total evenly; Shares carry the precomputed
	// per-person amounts.
	SplitEqual SplitMethod = "equal"

	// SplitUnequal uses operator-entered per-person amounts in Shares.
	SplitUnequal SplitMethod = "unequal"

	// SplitItemwise derives each person's share from the line items they
	// participated in, with the celebration discount spread proportionally.
	SplitItemwise SplitMethod = "itemwise"
)

// Epsilon is the tolerance used when validating record sums that arrive from
// lossy sources and when classifying a remainder as settled. Engine
// arithmetic itself is exact decimal and does not need it.
var Epsilon = decimal.New(1, -2) // 0.01

// PersonAmount pairs a person with a monetary amount. It is used for both
// paid-by entries and share entries on an expense.
type PersonAmount struct {
	// PersonID references the person (UUID format).
	PersonID string `json:"personId"`

	// Amount is the money attributed to this person.
	Amount decimal.Decimal `json:"amount"`
}

// Item represents a single line item on an itemwise expense.
// Its price is divided evenly among the people in SharedBy after the
// celebration reduction factor is applied.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Name is the description of the item (e.g., "Pizza", "Beer").
	Name string `json:"name"`

	// Price is the listed price of this item before any celebration
	// reduction.
	Price decimal.Decimal `json:"price"`

	// SharedBy is the list of person IDs who split this item equally.
	SharedBy []string `json:"sharedBy"`

	// CategoryName optionally overrides the expense category for
	// reporting aggregates.
	CategoryName string `json:"categoryName,omitempty"`
}

// Expense represents one recorded cost in the shared ledger.
//
// Invariants (validated by the verify package, never enforced by the
// engine itself):
//   - sum(PaidBy.Amount) matches Total within Epsilon
//   - sum(Shares.Amount) + celebration amount matches Total within Epsilon
//   - for itemwise expenses, sum(Items.Price) matches Total within Epsilon
//     before the celebration adjustment
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description is the human-readable label for the expense.
	Description string `json:"description"`

	// Total is the full amount of the expense.
	Total decimal.Decimal `json:"totalAmount"`

	// Category is the expense category used by reporting aggregates.
	Category string `json:"category"`

	// SplitMethod selects how Shares are derived.
	SplitMethod SplitMethod `json:"splitMethod"`

	// PaidBy lists who funded the expense and by how much. Multiple
	// payers are allowed; their amounts sum to Total.
	PaidBy []PersonAmount `json:"paidBy"`

	// Shares lists each participant's owed amount. For itemwise expenses
	// this is derived from Items and may be empty in the stored record.
	Shares []PersonAmount `json:"shares"`

	// Items are the line items of an itemwise expense. Empty for other
	// split methods.
	Items []Item `json:"items,omitempty"`

	// Celebration is an optional extra amount one person voluntarily
	// covers, proportionally reducing everyone's itemized share.
	Celebration *PersonAmount `json:"celebrationContribution,omitempty"`

	// ExcludeFromSettlement marks a record-keeping-only expense that
	// contributes nothing to balances, pairwise debts, or the plan.
	ExcludeFromSettlement bool `json:"excludeFromSettlement,omitempty"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"createdAt"`
}

// CelebrationAmount returns the celebration contribution, or zero when none
// is recorded.
func (e *Expense) CelebrationAmount() decimal.Decimal {
	if e.Celebration == nil {
		return decimal.Zero
	}
	return e.Celebration.Amount
}
