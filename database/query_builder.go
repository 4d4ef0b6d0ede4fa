package database

import (
	"fmt"
	"strings"
)

const (
	columnStatus          = "status"
	columnBusinessOwnerID = "business_owner_id"
	columnCreatedAt       = "created_at"
)

// QueryBuilder accumulates parameterized WHERE conditions and paging for a
// listing query. Column names must be constants, never user input.
type QueryBuilder struct {
	conditions []string
	args       []any
	page       string
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

func (qb *QueryBuilder) placeholder(value any) string {
	qb.args = append(qb.args, value)
	return fmt.Sprintf("$%d", len(qb.args))
}

// Where adds "column = value".
func (qb *QueryBuilder) Where(column string, value any) *QueryBuilder {
	qb.conditions = append(qb.conditions, column+" = "+qb.placeholder(value))
	return qb
}

// Paginate appends LIMIT/OFFSET, clamping limit to (0, maxLimit] and offset
// to >= 0. It must be called after every Where.
func (qb *QueryBuilder) Paginate(limit, offset int) *QueryBuilder {
	limit = validateLimit(limit, defaultLimit, maxLimit)
	offset = validateOffset(offset)
	qb.page = "LIMIT " + qb.placeholder(limit) + " OFFSET " + qb.placeholder(offset)
	return qb
}

func (qb *QueryBuilder) WhereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *QueryBuilder) PageClause() string {
	return qb.page
}

func (qb *QueryBuilder) Args() []any {
	return qb.args
}

func validateLimit(limit, defaultLimit, maxLimit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	}
	return limit
}

func validateOffset(offset int) int {
	return max(offset, 0)
}
