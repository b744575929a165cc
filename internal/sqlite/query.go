// Item query building for the SQLite backend. Collection-valued fields
// are JSON arrays, matched with json_each so a substring filter cannot
// bleed across array elements.

package sqlite

import (
	"strings"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// QueryItems returns items matching q in the requested order.
func (b *Backend) QueryItems(q types.Query) ([]*types.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return nil, err
	}

	sqlText, args := buildItemQuery(q)
	rows, err := b.db.Query(sqlText, args...)
	if err != nil {
		return nil, storageErr("querying items", err)
	}
	defer rows.Close()

	var items []*types.Item
	for rows.Next() {
		it, err := hydrateItem(rows)
		if err != nil {
			return nil, storageErr("hydrating item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating items", err)
	}
	return items, nil
}

// buildItemQuery translates a Query into SQL and bind arguments.
func buildItemQuery(q types.Query) (string, []any) {
	var (
		where []string
		args  []any
	)

	if q.Text != "" {
		pattern := likePattern(q.Text)
		where = append(where, `(
            lower(title) LIKE ? ESCAPE '\'
            OR lower(primary_creator) LIKE ? ESCAPE '\'
            OR EXISTS (SELECT 1 FROM json_each(items.alt_titles)
                WHERE lower(json_each.value) LIKE ? ESCAPE '\')
            OR EXISTS (SELECT 1 FROM json_each(coalesce(items.creators, '[]'))
                WHERE lower(json_each.value) LIKE ? ESCAPE '\'))`)
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if q.TagContains != "" {
		where = append(where, `EXISTS (SELECT 1 FROM json_each(items.tags)
            WHERE lower(json_each.value) LIKE ? ESCAPE '\')`)
		args = append(args, likePattern(q.TagContains))
	}

	if len(q.Statuses) > 0 {
		placeholders := strings.Repeat("?, ", len(q.Statuses))
		where = append(where, "status IN ("+placeholders[:len(placeholders)-2]+")")
		for _, s := range q.Statuses {
			args = append(args, string(s))
		}
	}

	if q.MinRating > 0 {
		where = append(where, "rating >= ?")
		args = append(args, q.MinRating)
	}

	sqlText := "SELECT " + itemColumns + " FROM items"
	if len(where) > 0 {
		sqlText += " WHERE " + strings.Join(where, " AND ")
	}
	sqlText += " ORDER BY " + orderClause(q)
	return sqlText, args
}

// orderClause returns the ORDER BY expression for the query. Every sort
// ends with ascending id so equal keys have a deterministic order.
func orderClause(q types.Query) string {
	var key string
	switch q.SortBy {
	case types.SortByRating:
		key = "rating"
	case types.SortByCreatedAt:
		key = "created_at"
	case types.SortByLastAccessedAt:
		// NULL means never opened and sorts as the oldest value.
		key = "coalesce(last_accessed_at, 0)"
	default:
		key = "lower(title)"
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	return key + " " + dir + ", id ASC"
}

// likePattern lowers the term, escapes LIKE metacharacters, and wraps it
// in wildcards for substring matching.
func likePattern(term string) string {
	term = strings.ToLower(term)
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
