package repository

import (
	"fmt"
	"strings"

	"goeha/internal/domain"
)

// Placeholder renders the n-th (1-based) bind parameter of a dialect
type Placeholder func(n int) string

// QuestionPlaceholder is used by SQLite
func QuestionPlaceholder(int) string { return "?" }

// DollarPlaceholder is used by PostgreSQL
func DollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// WhereClause builds " WHERE ..." for filter, or "" when the filter is empty.
// Bind numbering starts at start.
func WhereClause(filter domain.WordFilter, ph Placeholder, start int) (string, []any) {
	var conds []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = %s", column, ph(start+len(args)-1)))
	}

	if filter.ID != nil {
		add("id", *filter.ID)
	}
	if filter.Word != nil {
		add("word", *filter.Word)
	}
	if filter.Meaning != nil {
		add("meaning", *filter.Meaning)
	}
	if filter.Example != nil {
		add("example", *filter.Example)
	}
	if filter.Hardness != nil {
		add("hardness", *filter.Hardness)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SetClause builds "col = ?, ..." for the set fields of patch
func SetClause(patch domain.WordPatch, ph Placeholder) (string, []any) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = %s", column, ph(len(args))))
	}

	if patch.Word != nil {
		add("word", *patch.Word)
	}
	if patch.Meaning != nil {
		add("meaning", *patch.Meaning)
	}
	if patch.Example != nil {
		add("example", *patch.Example)
	}
	if patch.Hardness != nil {
		add("hardness", *patch.Hardness)
	}

	return strings.Join(sets, ", "), args
}
