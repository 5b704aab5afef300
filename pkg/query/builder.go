package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField names a projected field and its direction for ORDER BY.
type SortField struct {
	Field      string
	Descending bool
}

// predicate is a WHERE fragment with ? placeholders, numbered when the
// statement is rendered.
type predicate struct {
	sql  string
	args []any
}

// Builder assembles SELECT statements against a ProjectionMap. Conditions are
// joined with AND and parameters are numbered in the order they were added.
type Builder struct {
	proj        *ProjectionMap
	where       []predicate
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder returns a Builder that orders by defaultSort unless OrderByFields is called.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{proj: projection, defaultSort: defaultSort}
}

// ParseSortFields reads "title,-CreatedAt" style input. A leading "-" sorts
// descending and blank entries are skipped.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Build renders the filtered, ordered SELECT.
func (b *Builder) Build() (string, []any) {
	where, args := b.renderWhere()
	return "SELECT " + b.proj.Columns() + " FROM " + b.proj.From() + where + b.renderOrder(), args
}

// BuildCount renders a COUNT(*) over the filtered rows.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.renderWhere()
	return "SELECT COUNT(*) FROM " + b.proj.From() + where, args
}

// BuildPage renders Build with LIMIT and OFFSET for a one-based page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, pageSize, (page-1)*pageSize), args
}

// BuildSingle renders a lookup on one field, ignoring any conditions already added.
func (b *Builder) BuildSingle(field string, value any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.proj.Columns(), b.proj.From(), b.proj.Column(field),
	)
	return sql, []any{value}
}

// OrderByFields replaces the default ordering.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereEquals matches field = value. Nil values are skipped.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.add(b.proj.Column(field)+" = ?", value)
}

// WhereContains matches field ILIKE %value%. Nil and empty values are skipped.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.add(b.proj.Column(field)+" ILIKE ?", "%"+*value+"%")
}

// WhereCompare matches field <op> value for =, <>, <, <=, >, or >=. Nil values
// are skipped. Any other operator panics.
func (b *Builder) WhereCompare(field, op string, value any) *Builder {
	switch op {
	case "=", "<>", "<", "<=", ">", ">=":
	default:
		panic(fmt.Sprintf("query: unsupported operator %q", op))
	}
	if isNil(value) {
		return b
	}
	return b.add(b.proj.Column(field)+" "+op+" ?", value)
}

// WhereNull matches field IS NULL when null is true and IS NOT NULL when it is
// false. A nil pointer is skipped.
func (b *Builder) WhereNull(field string, null *bool) *Builder {
	if null == nil {
		return b
	}
	test := " IS NOT NULL"
	if *null {
		test = " IS NULL"
	}
	return b.add(b.proj.Column(field) + test)
}

// WhereSearch matches search against any of fields with ILIKE.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	ors := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		ors[i] = b.proj.Column(f) + " ILIKE ?"
		args[i] = pattern
	}
	return b.add("("+strings.Join(ors, " OR ")+")", args...)
}

func (b *Builder) add(sql string, args ...any) *Builder {
	b.where = append(b.where, predicate{sql: sql, args: args})
	return b
}

func (b *Builder) renderWhere() (string, []any) {
	if len(b.where) == 0 {
		return "", nil
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(" WHERE ")
	for i, p := range b.where {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		next := 0
		for _, r := range p.sql {
			if r != '?' {
				sb.WriteRune(r)
				continue
			}
			args = append(args, p.args[next])
			next++
			sb.WriteString("$" + strconv.Itoa(len(args)))
		}
	}
	return sb.String(), args
}

func (b *Builder) renderOrder() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		parts[i] = b.proj.Column(f.Field) + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
