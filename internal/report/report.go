// Package report derives presentation-only aggregates from normalized
// expense contributions: spend per category, per day, and per person. These
// feed summary and dashboard collaborators and carry no settlement
// semantics of their own.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlabs/splitledger/internal/engine"
	"github.com/ledgerlabs/splitledger/internal/models"
)

// CategorySummary aggregates spend for one category. Itemwise expenses
// contribute per item, so an item-level category override lands in its own
// bucket.
type CategorySummary struct {
	Category     string          `json:"category"`
	ExpenseCount int             `json:"expenseCount"`
	Total        decimal.Decimal `json:"total"`
	Average      decimal.Decimal `json:"average"`
}

// DailySummary aggregates spend for one calendar day (UTC).
type DailySummary struct {
	Date         string          `json:"date"`
	ExpenseCount int             `json:"expenseCount"`
	Total        decimal.Decimal `json:"total"`
}

// PersonSummary totals one person's paid and owed amounts across the
// snapshot, mirroring the positions behind their net balance.
type PersonSummary struct {
	PersonID  string          `json:"personId"`
	Name      string          `json:"name,omitempty"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
	TotalOwed decimal.Decimal `json:"totalOwed"`
	Net       decimal.Decimal `json:"net"`
}

// Summary is the full aggregate view of one snapshot. Record-keeping-only
// expenses are included: they are real spending even though they settle
// nothing.
type Summary struct {
	Categories []CategorySummary `json:"categories"`
	Days       []DailySummary    `json:"days"`
	People     []PersonSummary   `json:"people"`
	GrandTotal decimal.Decimal   `json:"grandTotal"`
}

type bucket struct {
	count int
	total decimal.Decimal
}

// Summarize builds the aggregate view for the given people and expenses.
// Output slices are sorted by their natural keys so repeated runs
// serialize identically.
func Summarize(people []models.Person, expenses []models.Expense) *Summary {
	names := make(map[string]string, len(people))
	for _, p := range people {
		names[p.ID] = p.Name
	}

	categories := make(map[string]*bucket)
	days := make(map[string]*bucket)
	persons := make(map[string]*PersonSummary)

	summary := &Summary{}

	for i := range expenses {
		exp := &expenses[i]
		summary.GrandTotal = summary.GrandTotal.Add(exp.Total)

		day := time.Unix(exp.CreatedAt, 0).UTC().Format("2006-01-02")
		db := get(days, day)
		db.count++
		db.total = db.total.Add(exp.Total)

		c := engine.NormalizeExpense(exp)
		addCategorySpend(categories, exp, &c)

		for personID, amount := range c.Paid {
			ps := personSummary(persons, names, personID)
			ps.TotalPaid = ps.TotalPaid.Add(amount)
		}
		for personID, amount := range c.Owed {
			ps := personSummary(persons, names, personID)
			ps.TotalOwed = ps.TotalOwed.Add(amount)
		}
	}

	for category, b := range categories {
		avg := decimal.Zero
		if b.count > 0 {
			avg = b.total.DivRound(decimal.NewFromInt(int64(b.count)), 2)
		}
		summary.Categories = append(summary.Categories, CategorySummary{
			Category:     category,
			ExpenseCount: b.count,
			Total:        b.total,
			Average:      avg,
		})
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Category < summary.Categories[j].Category
	})

	for day, b := range days {
		summary.Days = append(summary.Days, DailySummary{
			Date:         day,
			ExpenseCount: b.count,
			Total:        b.total,
		})
	}
	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Date < summary.Days[j].Date
	})

	for _, ps := range persons {
		ps.Net = ps.TotalPaid.Sub(ps.TotalOwed)
		summary.People = append(summary.People, *ps)
	}
	sort.Slice(summary.People, func(i, j int) bool {
		return summary.People[i].PersonID < summary.People[j].PersonID
	})

	return summary
}

// addCategorySpend books an expense into category buckets. Itemwise
// expenses book each item share under the item's category so overrides
// apply; other methods book the full total against the expense category.
func addCategorySpend(categories map[string]*bucket, exp *models.Expense, c *engine.Contribution) {
	if exp.SplitMethod != models.SplitItemwise || len(c.ItemShares) == 0 {
		b := get(categories, exp.Category)
		b.count++
		b.total = b.total.Add(exp.Total)
		return
	}

	booked := make(map[string]bool)
	for _, share := range c.ItemShares {
		b := get(categories, share.Category)
		if !booked[share.Category] {
			b.count++
			booked[share.Category] = true
		}
		b.total = b.total.Add(share.Amount)
	}
	// The celebration discount shrinks item shares below the expense
	// total; the contributor's extra is booked against the expense
	// category so category totals still sum to the grand total.
	if extra := exp.CelebrationAmount(); extra.IsPositive() {
		b := get(categories, exp.Category)
		b.total = b.total.Add(extra)
	}
}

func get(m map[string]*bucket, key string) *bucket {
	b := m[key]
	if b == nil {
		b = &bucket{}
		m[key] = b
	}
	return b
}

func personSummary(m map[string]*PersonSummary, names map[string]string, personID string) *PersonSummary {
	ps := m[personID]
	if ps == nil {
		ps = &PersonSummary{PersonID: personID, Name: names[personID]}
		m[personID] = ps
	}
	return ps
}
