package types

import "time"

// Note is a user annotation tied to a chapter of an item. Every note
// belongs to exactly one item; deleting the item deletes its notes in the
// same transaction.
type Note struct {
	ID           int64     `json:"id"`
	ItemID       int64     `json:"itemId"`
	Chapter      int       `json:"chapter"`
	Body         string    `json:"body"`
	Participants []string  `json:"participants"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate checks that the note references an owner.
func (n *Note) Validate() error {
	if n.ItemID <= 0 {
		return ErrInvalidOwner
	}
	return nil
}

// Normalize replaces nil collections with empty slices.
func (n *Note) Normalize() {
	if n.Participants == nil {
		n.Participants = []string{}
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
}

// NotePatch is a partial update for a note. Nil fields are left
// untouched. The owning item cannot be changed after creation.
type NotePatch struct {
	Chapter      *int
	Body         *string
	Participants *[]string
	Tags         *[]string
}
