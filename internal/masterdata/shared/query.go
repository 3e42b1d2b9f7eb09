package shared

import (
	"strconv"
	"strings"
)

// Where accumulates numbered SQL conditions and their arguments.
type Where struct {
	conds []string
	args  []any
}

// Add appends a condition. Each "?" in cond is replaced by the next
// placeholder and bound to the same arg.
func (w *Where) Add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(w.args))))
}

// Search adds an ILIKE match on any of the columns.
func (w *Where) Search(term string, columns ...string) {
	if term == "" || len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE ?"
	}
	w.Add("("+strings.Join(parts, " OR ")+")", "%"+term+"%")
}

// SQL renders " WHERE ..." or "".
func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// Args returns the bound arguments.
func (w *Where) Args() []any {
	return w.args
}

// Page renders LIMIT/OFFSET placeholders after the existing args.
func (w *Where) Page(f ListFilters) (string, []any) {
	n := len(w.args)
	args := append(append([]any{}, w.args...), f.Limit, f.Offset())
	return " LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2), args
}

// OrderBy picks a whitelisted sort column, falling back to def.
func OrderBy(f ListFilters, allowed map[string]string, def string) string {
	col, ok := allowed[f.SortBy]
	if !ok {
		col = def
	}
	dir := "ASC"
	if f.SortDir == SortDesc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}
