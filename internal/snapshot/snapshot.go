// Package snapshot decodes a point-in-time JSON capture of the ledger for
// the command-line harness and tests. It is a fixture format, not a store:
// the engine only ever sees the decoded in-memory collections.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/ledgerlabs/splitledger/internal/engine"
	"github.com/ledgerlabs/splitledger/internal/models"
)

// File is the on-disk shape of a snapshot. Monetary amounts decode through
// decimal.Decimal, which accepts both JSON numbers and strings.
type File struct {
	People      []models.Person                   `json:"people"`
	Expenses    []models.Expense                  `json:"expenses"`
	Settlements []models.SettlementPayment        `json:"settlements"`
	Overrides   []models.ManualSettlementOverride `json:"overrides"`
}

// Load reads and decodes the snapshot at path.
func Load(path string) (*engine.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a snapshot from r, assigning a fresh UUID to any record
// that omits its ID so downstream views always have stable keys.
func Decode(r io.Reader) (*engine.Snapshot, error) {
	var file File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	for i := range file.People {
		if file.People[i].ID == "" {
			file.People[i].ID = uuid.New().String()
		}
	}
	for i := range file.Expenses {
		if file.Expenses[i].ID == "" {
			file.Expenses[i].ID = uuid.New().String()
		}
		for j := range file.Expenses[i].Items {
			if file.Expenses[i].Items[j].ID == "" {
				file.Expenses[i].Items[j].ID = uuid.New().String()
			}
		}
	}
	for i := range file.Settlements {
		if file.Settlements[i].ID == "" {
			file.Settlements[i].ID = uuid.New().String()
		}
	}

	if err := checkReferences(&file); err != nil {
		return nil, err
	}

	return &engine.Snapshot{
		People:      file.People,
		Expenses:    file.Expenses,
		Settlements: file.Settlements,
		Overrides:   file.Overrides,
	}, nil
}

// checkReferences rejects priced items nobody shares and records pointing
// at people the snapshot does not contain. The person checks are skipped
// when the people list is empty: callers may supply expense-only captures
// where identity lives elsewhere.
func checkReferences(file *File) error {
	for i := range file.Expenses {
		exp := &file.Expenses[i]
		for _, item := range exp.Items {
			// A priced item nobody shares would silently lose value, so
			// it is refused at ingestion rather than left for the
			// verifier to flag after the fact.
			if item.Price.Cmp(models.Epsilon) > 0 && len(item.SharedBy) == 0 {
				return fmt.Errorf("expense %s item %s: price %s with no sharers", exp.ID, item.ID, item.Price)
			}
		}
	}

	if len(file.People) == 0 {
		return nil
	}
	known := make(map[string]bool, len(file.People))
	for _, p := range file.People {
		known[p.ID] = true
	}

	for i := range file.Expenses {
		exp := &file.Expenses[i]
		for _, pa := range exp.PaidBy {
			if !known[pa.PersonID] {
				return fmt.Errorf("expense %s: unknown payer %q", exp.ID, pa.PersonID)
			}
		}
		for _, pa := range exp.Shares {
			if !known[pa.PersonID] {
				return fmt.Errorf("expense %s: unknown sharer %q", exp.ID, pa.PersonID)
			}
		}
		for _, item := range exp.Items {
			for _, personID := range item.SharedBy {
				if !known[personID] {
					return fmt.Errorf("expense %s item %s: unknown sharer %q", exp.ID, item.ID, personID)
				}
			}
		}
		if exp.Celebration != nil && !known[exp.Celebration.PersonID] {
			return fmt.Errorf("expense %s: unknown celebration contributor %q", exp.ID, exp.Celebration.PersonID)
		}
	}
	for _, s := range file.Settlements {
		if !known[s.DebtorID] {
			return fmt.Errorf("settlement %s: unknown debtor %q", s.ID, s.DebtorID)
		}
		if !known[s.CreditorID] {
			return fmt.Errorf("settlement %s: unknown creditor %q", s.ID, s.CreditorID)
		}
	}
	return nil
}
