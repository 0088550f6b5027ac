package database

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/storefront-server/internal/paging"
)

// Where accumulates AND-ed conditions with positional arguments. Each
// condition uses "?" where its argument goes; placeholders are renumbered
// as $n in the order conditions are added.
type Where struct {
	clauses []string
	args    []any
}

func (w *Where) Add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, cond)
}

// SQL returns the WHERE clause, or an empty string when no conditions were added.
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *Where) Args() []any {
	return w.args
}

// Next returns the placeholder for an argument appended after the conditions.
func (w *Where) Next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

// OrderBy renders an ORDER BY clause for params.SortBy looked up in fields,
// falling back to created_at for unknown keys.
func OrderBy(fields map[string]string, params paging.Params) string {
	col, ok := fields[params.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if params.SortOrder == paging.SortAsc {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir
}
