package database_test

import (
	"testing"

	"github.com/jrsteele09/storefront-server/internal/database"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/stretchr/testify/require"
)

func TestWhere(t *testing.T) {
	var w database.Where
	require.Empty(t, w.SQL())

	w.Add("category = ?", "meals")
	w.Add("(email ILIKE ? OR phone LIKE ?)", "%a%", "%1%")
	w.Add("is_active")
	limit := w.Next(10)

	require.Equal(t, " WHERE category = $1 AND (email ILIKE $2 OR phone LIKE $3) AND is_active", w.SQL())
	require.Equal(t, "$4", limit)
	require.Equal(t, []any{"meals", "%a%", "%1%", 10}, w.Args())
}

func TestOrderBy(t *testing.T) {
	fields := map[string]string{"createdAt": "created_at", "price": "price"}

	require.Equal(t, " ORDER BY price ASC", database.OrderBy(fields, paging.Params{SortBy: "price", SortOrder: "asc"}))
	require.Equal(t, " ORDER BY created_at DESC", database.OrderBy(fields, paging.Params{SortBy: "price; DROP TABLE x"}))
}
