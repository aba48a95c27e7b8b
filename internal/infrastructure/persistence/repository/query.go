package repository

import "strings"

const dateLayout = "2006-01-02"

// whereBuilder collects AND-ed predicates and their arguments
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) add(clause string, args ...interface{}) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// in adds "column IN (...)"; an empty set adds nothing
func (w *whereBuilder) in(column string, values []string) {
	if len(values) == 0 {
		return
	}
	clause, args := inClause(column, values)
	w.add(clause, args...)
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func inClause(column string, values []string) (string, []interface{}) {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
	return column + " IN (" + placeholders + ")", args
}
