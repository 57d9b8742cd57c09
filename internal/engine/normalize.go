package engine

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerlabs/splitledger/internal/models"
)

// Contribution is the normalized form of one expense: how much each involved
// person paid and how much they owe. Owed includes the celebration
// contributor's voluntary extra, so Paid and Owed each sum to the expense
// total when the record is consistent.
type Contribution struct {
	ExpenseID string

	// Paid maps person ID to the amount they funded.
	Paid map[string]decimal.Decimal

	// Owed maps person ID to the amount they are responsible for.
	Owed map[string]decimal.Decimal

	// ItemShares breaks itemwise owed amounts down per item, after the
	// celebration reduction. Used by reporting views; empty for
	// non-itemwise expenses.
	ItemShares []ItemShare
}

// ItemShare is one person's effective share of one line item.
type ItemShare struct {
	ItemID   string
	ItemName string
	// Category is the item's own category when set, otherwise the
	// expense category.
	Category string
	PersonID string
	Amount   decimal.Decimal
}

// NormalizeExpense computes each involved person's paid and owed amounts for
// a single expense. It is a pure function and never fails: malformed records
// produce best-effort amounts (a missing or zero denominator contributes
// zero) so one bad record cannot sink the whole computation. The verify
// package reports such records separately.
func NormalizeExpense(exp *models.Expense) Contribution {
	c := Contribution{
		ExpenseID: exp.ID,
		Paid:      make(map[string]decimal.Decimal, len(exp.PaidBy)),
		Owed:      make(map[string]decimal.Decimal, len(exp.Shares)),
	}

	for _, p := range exp.PaidBy {
		c.Paid[p.PersonID] = c.Paid[p.PersonID].Add(p.Amount)
	}

	switch exp.SplitMethod {
	case models.SplitItemwise:
		normalizeItemwise(exp, &c)
	default:
		// equal and unequal splits carry precomputed shares.
		for _, s := range exp.Shares {
			c.Owed[s.PersonID] = c.Owed[s.PersonID].Add(s.Amount)
		}
	}

	// The celebration contributor owes their voluntary extra on top of any
	// share of their own, keeping Owed in balance with Paid.
	if exp.Celebration != nil && !exp.Celebration.Amount.IsZero() {
		c.Owed[exp.Celebration.PersonID] = c.Owed[exp.Celebration.PersonID].Add(exp.Celebration.Amount)
	}

	return c
}

// normalizeItemwise distributes item prices over their sharers, scaling each
// price by the celebration reduction factor so the discount spreads
// proportionally rather than as a flat subtraction.
func normalizeItemwise(exp *models.Expense, c *Contribution) {
	effective := exp.Total.Sub(exp.CelebrationAmount())
	if effective.IsNegative() {
		effective = decimal.Zero
	}

	itemSum := decimal.Zero
	for _, item := range exp.Items {
		itemSum = itemSum.Add(item.Price)
	}

	factor := reductionFactor(effective, itemSum)

	for _, item := range exp.Items {
		if item.Price.Cmp(models.Epsilon) <= 0 || len(item.SharedBy) == 0 {
			// Zero-priced items carry no cost; items nobody shares are
			// skipped and surface as a conservation shortfall in verify.
			continue
		}
		sharers := decimal.NewFromInt(int64(len(item.SharedBy)))
		perPerson := item.Price.Mul(factor).DivRound(sharers, 6)

		category := item.CategoryName
		if category == "" {
			category = exp.Category
		}
		for _, personID := range item.SharedBy {
			c.Owed[personID] = c.Owed[personID].Add(perPerson)
			c.ItemShares = append(c.ItemShares, ItemShare{
				ItemID:   item.ID,
				ItemName: item.Name,
				Category: category,
				PersonID: personID,
				Amount:   perPerson,
			})
		}
	}
}

// reductionFactor returns effective/itemSum, with the degenerate cases
// pinned: an empty item list on an empty effective total is a no-op
// (factor 1), while a vanished item sum under a real total cannot
// distribute anything (factor 0).
func reductionFactor(effective, itemSum decimal.Decimal) decimal.Decimal {
	if itemSum.Cmp(models.Epsilon) > 0 {
		return effective.DivRound(itemSum, 6)
	}
	if effective.Abs().Cmp(models.Epsilon) <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}
