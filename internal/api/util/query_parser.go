package util

import (
	"fmt"
	"strings"
)

// QueryOperator is the comparison applied by a QueryFilter.
type QueryOperator string

const (
	OpEq        QueryOperator = "eq"
	OpNe        QueryOperator = "ne"
	OpGt        QueryOperator = "gt"
	OpGte       QueryOperator = "gte"
	OpLt        QueryOperator = "lt"
	OpLte       QueryOperator = "lte"
	OpIn        QueryOperator = "in"
	OpNin       QueryOperator = "nin"
	OpIsNull    QueryOperator = "isnull"
	OpIsNotNull QueryOperator = "isnotnull"
	OpLike      QueryOperator = "like"
)

// QueryFilter is one condition of a list query. Value is a string, a
// []string for in/nin, or nil for the null checks.
type QueryFilter struct {
	Field    string
	Operator QueryOperator
	Value    interface{}
}

type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

type OrderClause struct {
	Field     string
	Direction OrderDirection
}

// operand tells how many value parts an operator takes.
type operand int

const (
	noValue operand = iota
	oneValue
	valueList
)

var operators = map[QueryOperator]operand{
	OpEq:        oneValue,
	OpNe:        oneValue,
	OpGt:        oneValue,
	OpGte:       oneValue,
	OpLt:        oneValue,
	OpLte:       oneValue,
	OpLike:      oneValue,
	OpIn:        valueList,
	OpNin:       valueList,
	OpIsNull:    noValue,
	OpIsNotNull: noValue,
}

// listSeparator splits the values of in/nin, since "," already separates
// conditions.
const listSeparator = ";"

// ParseQueryString reads comma separated conditions of the form
// field|value, field|isnull, field|isnotnull or field|op|value.
// in and nin take a semicolon separated list: status|in|cash;card.
func ParseQueryString(raw string) ([]QueryFilter, error) {
	var filters []QueryFilter
	for _, term := range splitTerms(raw) {
		f, err := parseCondition(term)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func parseCondition(term string) (QueryFilter, error) {
	parts := strings.Split(term, "|")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return QueryFilter{}, fmt.Errorf("invalid query format: %s (expected field|value or field|operator|value)", term)
	}
	field := parts[0]

	if len(parts) == 2 {
		op := QueryOperator(strings.ToLower(parts[1]))
		if operators[op] == noValue && isOperator(op) {
			return QueryFilter{Field: field, Operator: op}, nil
		}
		return QueryFilter{Field: field, Operator: OpEq, Value: parts[1]}, nil
	}

	op := QueryOperator(strings.ToLower(parts[1]))
	if !isOperator(op) {
		return QueryFilter{}, fmt.Errorf("invalid operator: %s", parts[1])
	}

	switch operators[op] {
	case noValue:
		return QueryFilter{}, fmt.Errorf("operator %s takes no value", op)
	case valueList:
		return QueryFilter{Field: field, Operator: op, Value: strings.Split(parts[2], listSeparator)}, nil
	default:
		return QueryFilter{Field: field, Operator: op, Value: parts[2]}, nil
	}
}

func isOperator(op QueryOperator) bool {
	_, ok := operators[op]
	return ok
}

// ParseOrderString reads comma separated field|asc or field|desc clauses.
func ParseOrderString(raw string) ([]OrderClause, error) {
	var orders []OrderClause
	for _, term := range splitTerms(raw) {
		field, dir, ok := strings.Cut(term, "|")
		if !ok || field == "" || strings.Contains(dir, "|") {
			return nil, fmt.Errorf("invalid order format: %s (expected field|direction)", term)
		}

		direction := OrderDirection(strings.ToLower(dir))
		if direction != OrderAsc && direction != OrderDesc {
			return nil, fmt.Errorf("invalid order direction: %s (expected asc or desc)", dir)
		}
		orders = append(orders, OrderClause{Field: field, Direction: direction})
	}
	return orders, nil
}

func splitTerms(raw string) []string {
	var terms []string
	for _, term := range strings.Split(raw, ",") {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// FieldSet names the columns a list endpoint accepts in query and order.
// Field names are interpolated into SQL, so every parsed filter goes
// through a FieldSet first.
type FieldSet struct {
	Query []string
	Order []string
}

func (s FieldSet) checkFilters(filters []QueryFilter) error {
	for _, f := range filters {
		if !hasField(s.Query, f.Field) {
			return fmt.Errorf("invalid query field: %s (valid fields: %s)", f.Field, strings.Join(s.Query, ", "))
		}
	}
	return nil
}

func (s FieldSet) checkOrder(orders []OrderClause) error {
	for _, o := range orders {
		if !hasField(s.Order, o.Field) {
			return fmt.Errorf("invalid order field: %s (valid fields: %s)", o.Field, strings.Join(s.Order, ", "))
		}
	}
	return nil
}

func hasField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

// BuildListFilter parses the raw query and order strings of a list request,
// checks them against fields and clamps the paging values.
func BuildListFilter(queryStr, orderStr string, page, perPage int, fields FieldSet) (ListFilter, error) {
	filter := ListFilter{Page: page, PerPage: perPage}
	filter.Normalize()

	filters, err := ParseQueryString(queryStr)
	if err != nil {
		return filter, err
	}
	if err := fields.checkFilters(filters); err != nil {
		return filter, err
	}

	orders, err := ParseOrderString(orderStr)
	if err != nil {
		return filter, err
	}
	if err := fields.checkOrder(orders); err != nil {
		return filter, err
	}

	filter.Filters = filters
	filter.Order = orders
	return filter, nil
}
