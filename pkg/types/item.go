package types

import (
	"time"

	"github.com/google/uuid"
)

// Item statuses. The wire values match the library files written by
// earlier releases, so "Plan to Read" keeps its space-separated form.
const (
	StatusReading    Status = "Reading"
	StatusCompleted  Status = "Completed"
	StatusPlanToRead Status = "Plan to Read"
	StatusDropped    Status = "Dropped"
)

// Status is the reading state of an item.
type Status string

// validStatuses is the set of recognized status values.
var validStatuses = map[Status]bool{
	StatusReading:    true,
	StatusCompleted:  true,
	StatusPlanToRead: true,
	StatusDropped:    true,
}

// Valid reports whether s is a recognized status.
func (s Status) Valid() bool {
	return validStatuses[s]
}

// PlaceholderCoverURL is used when an item has no cover of its own.
const PlaceholderCoverURL = "https://picsum.photos/300/450"

// Item is a tracked series in the catalog. The JSON field names are the
// on-disk mirror format and must stay stable across releases.
type Item struct {
	ID                int64     `json:"id"`
	ExternalID        string    `json:"externalId,omitempty"` // catalog id, or manual-<uuid>
	Title             string    `json:"title"`
	AlternativeTitles []string  `json:"alternativeTitles"`
	CoverURL          string    `json:"coverUrl"`
	PrimaryCreator    string    `json:"primaryCreator"` // legacy single-author field
	Creators          []string  `json:"creators"`
	Rating            int       `json:"rating"` // 0-5
	Status            Status    `json:"status"`
	Tags              []string  `json:"tags"`
	CreatedAt         time.Time `json:"createdAt"`
	LastAccessedAt    time.Time `json:"lastAccessedAt,omitzero"` // zero means never opened
}

// Validate checks the fields a caller must supply. It returns a sentinel
// error from this package on failure.
func (it *Item) Validate() error {
	if it.Title == "" {
		return ErrTitleEmpty
	}
	if it.Rating < 0 || it.Rating > 5 {
		return ErrInvalidRating
	}
	if !it.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Normalize fills derived defaults in place: the placeholder cover when
// none is set, Creators from PrimaryCreator when Creators is nil, and
// empty slices for nil collections. A non-nil empty Creators slice is
// respected as deliberately cleared and is not backfilled.
func (it *Item) Normalize() {
	if it.CoverURL == "" {
		it.CoverURL = PlaceholderCoverURL
	}
	if it.Creators == nil {
		if it.PrimaryCreator != "" {
			it.Creators = []string{it.PrimaryCreator}
		} else {
			it.Creators = []string{}
		}
	}
	if it.AlternativeTitles == nil {
		it.AlternativeTitles = []string{}
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
}

// NewExternalID returns a synthetic external id for manually created
// items, distinguishable from real catalog ids by the "manual-" prefix.
func NewExternalID() string {
	return "manual-" + uuid.NewString()
}

// ItemPatch is a partial update for an item. Nil fields are left
// untouched. CreatedAt and ID are immutable and have no patch field.
type ItemPatch struct {
	ExternalID        *string
	Title             *string
	AlternativeTitles *[]string
	CoverURL          *string
	PrimaryCreator    *string
	Creators          *[]string
	Rating            *int
	Status            *Status
	Tags              *[]string
	LastAccessedAt    *time.Time
}
