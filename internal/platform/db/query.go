package db

import (
	"fmt"
)

// Query builds a parameterized SELECT with a conjunctive WHERE clause.
// Column names passed to it must come from code, never from request input.
type Query struct {
	table   string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewQuery creates a Query for the given table and select list.
func NewQuery(table, cols string) *Query {
	return &Query{
		table: table,
		cols:  cols,
		idx:   1,
	}
}

// Next returns the next placeholder index.
func (q *Query) Next() int { return q.idx }

// Add appends a WHERE fragment (without leading "AND") whose placeholders start
// at Next().
func (q *Query) Add(clause string, args ...interface{}) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// AddCompare appends "column op $n".
func (q *Query) AddCompare(column, op string, value interface{}) {
	q.Add(fmt.Sprintf("%s %s $%d", column, op, q.idx), value)
}

// OrderBy sets the ORDER BY clause (without the keyword).
func (q *Query) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

// PageSQL returns the data query with ORDER BY and LIMIT/OFFSET placeholders.
func (q *Query) PageSQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.table, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
	return sql
}

// PageArgs returns the WHERE arguments followed by limit and offset.
func (q *Query) PageArgs(limit, offset int) []interface{} {
	result := make([]interface{}, len(q.args)+2)
	copy(result, q.args)
	result[len(q.args)] = limit
	result[len(q.args)+1] = offset
	return result
}
