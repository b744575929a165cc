package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// seedQueryItems loads a small catalog with known field values and
// returns ids keyed by title.
func seedQueryItems(t *testing.T, b *Backend) map[string]int64 {
	t.Helper()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []*types.Item{
		{
			Title:             "Solo Leveling",
			AlternativeTitles: []string{"Only I Level Up"},
			PrimaryCreator:    "Chugong",
			Rating:            5,
			Status:            types.StatusCompleted,
			Tags:              []string{"Action", "Fantasy"},
			CreatedAt:         base,
			LastAccessedAt:    base.Add(72 * time.Hour),
		},
		{
			Title:          "Tower of God",
			PrimaryCreator: "SIU",
			Rating:         4,
			Status:         types.StatusReading,
			Tags:           []string{"Adventure", "Fantasy"},
			CreatedAt:      base.Add(24 * time.Hour),
			LastAccessedAt: base.Add(48 * time.Hour),
		},
		{
			Title:     "The God of High School",
			Creators:  []string{"Yongje Park"},
			Rating:    3,
			Status:    types.StatusDropped,
			Tags:      []string{"Action", "Martial Arts"},
			CreatedAt: base.Add(48 * time.Hour),
		},
		{
			Title:     "Unordinary",
			Rating:    4,
			Status:    types.StatusReading,
			Tags:      []string{"Drama"},
			CreatedAt: base.Add(72 * time.Hour),
		},
	}
	ids := make(map[string]int64, len(items))
	for _, it := range items {
		id, err := b.CreateItem(it)
		require.NoError(t, err)
		ids[it.Title] = id
	}
	return ids
}

func titles(items []*types.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestQueryItems_Filters(t *testing.T) {
	b := setupBackend(t)
	seedQueryItems(t, b)

	tests := []struct {
		name string
		q    types.Query
		want []string
	}{
		{
			name: "no filters returns all sorted by title",
			q:    types.Query{},
			want: []string{"Solo Leveling", "The God of High School", "Tower of God", "Unordinary"},
		},
		{
			name: "text matches title substring case-insensitively",
			q:    types.Query{Text: "god"},
			want: []string{"The God of High School", "Tower of God"},
		},
		{
			name: "text matches alternative titles",
			q:    types.Query{Text: "level up"},
			want: []string{"Solo Leveling"},
		},
		{
			name: "text matches primary creator",
			q:    types.Query{Text: "chugong"},
			want: []string{"Solo Leveling"},
		},
		{
			name: "text matches creators list",
			q:    types.Query{Text: "yongje"},
			want: []string{"The God of High School"},
		},
		{
			name: "tag substring",
			q:    types.Query{TagContains: "act"},
			want: []string{"Solo Leveling", "The God of High School"},
		},
		{
			name: "status set",
			q:    types.Query{Statuses: []types.Status{types.StatusReading, types.StatusDropped}},
			want: []string{"The God of High School", "Tower of God", "Unordinary"},
		},
		{
			name: "min rating",
			q:    types.Query{MinRating: 4},
			want: []string{"Solo Leveling", "Tower of God", "Unordinary"},
		},
		{
			name: "filters compose with AND",
			q: types.Query{
				TagContains: "fantasy",
				Statuses:    []types.Status{types.StatusReading},
				MinRating:   4,
			},
			want: []string{"Tower of God"},
		},
		{
			name: "no match yields empty result",
			q:    types.Query{Text: "berserk"},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := b.QueryItems(tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(items))
		})
	}
}

func TestQueryItems_Sorting(t *testing.T) {
	b := setupBackend(t)
	seedQueryItems(t, b)

	tests := []struct {
		name string
		q    types.Query
		want []string
	}{
		{
			name: "rating descending ties break by id",
			q:    types.Query{SortBy: types.SortByRating, SortDesc: true},
			want: []string{"Solo Leveling", "Tower of God", "Unordinary", "The God of High School"},
		},
		{
			name: "created ascending",
			q:    types.Query{SortBy: types.SortByCreatedAt},
			want: []string{"Solo Leveling", "Tower of God", "The God of High School", "Unordinary"},
		},
		{
			name: "never accessed sorts oldest",
			q:    types.Query{SortBy: types.SortByLastAccessedAt},
			want: []string{"The God of High School", "Unordinary", "Tower of God", "Solo Leveling"},
		},
		{
			name: "last accessed descending",
			q:    types.Query{SortBy: types.SortByLastAccessedAt, SortDesc: true},
			want: []string{"Solo Leveling", "Tower of God", "The God of High School", "Unordinary"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := b.QueryItems(tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(items))
		})
	}
}

func TestQueryItems_EscapesLikeMetacharacters(t *testing.T) {
	b := setupBackend(t)

	_, err := b.CreateItem(&types.Item{Title: "100% Clean"})
	require.NoError(t, err)
	_, err = b.CreateItem(&types.Item{Title: "1000 Ways"})
	require.NoError(t, err)

	items, err := b.QueryItems(types.Query{Text: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Clean"}, titles(items),
		"percent in the search term is a literal, not a wildcard")
}
