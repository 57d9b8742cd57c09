package models

// Person represents a participant in the shared ledger.
// People are created and deleted by an external people-management
// collaborator; the engine only ever reads them.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string `json:"id"`

	// Name is the display name of the person.
	Name string `json:"name"`
}
