package out

import "ocean_server/core/domain"

// DraftStore persists generated reply drafts keyed by identifier.
type DraftStore interface {
	// List returns the full current collection.
	List() ([]domain.Draft, error)

	// Save upserts by id: an existing id is replaced in place, a new id
	// is appended.
	Save(draft domain.Draft) error

	// Delete removes the draft with the given id. Deleting an unknown id
	// is not an error.
	Delete(id string) error
}
