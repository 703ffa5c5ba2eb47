package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sqlite builds statements with SQLite quoting and placeholders.
var sqlite = entsql.Dialect(dialect.SQLite)

// eventRepo implements EventRepo on the ent SQL driver and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

// selector returns the newest-first query over table restricted by o.
func (o QueryOpts) selector(table string, columns []string) *entsql.Selector {
	sel := sqlite.Select(columns...).
		From(sqlite.Table(table)).
		OrderBy(entsql.Desc("sequence"))
	if o.After > 0 {
		sel.Where(entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		sel.Where(entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", o.From.UTC()))
	}
	if !o.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", o.To.UTC()))
	}
	if o.Limit > 0 {
		sel.Limit(o.Limit)
	}
	return sel
}

func byID(table string, columns []string, id int) *entsql.Selector {
	return sqlite.Select(columns...).
		From(sqlite.Table(table)).
		Where(entsql.EQ("id", id))
}

// scanner is satisfied by *entsql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func queryEvents[T any](ctx context.Context, r *eventRepo, sel *entsql.Selector, scan func(scanner) (T, error)) ([]T, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		rec, err := scan(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// eventTime scans a timestamp column. The SQLite driver returns time.Time
// for datetime columns and text for rows written by other tools.
type eventTime time.Time

func (t *eventTime) Scan(v any) error {
	switch v := v.(type) {
	case time.Time:
		*t = eventTime(v)
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		*t = eventTime{}
	default:
		return fmt.Errorf("unsupported timestamp type %T", v)
	}
	return nil
}

var eventTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func (t *eventTime) parse(s string) error {
	for _, layout := range eventTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = eventTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}
