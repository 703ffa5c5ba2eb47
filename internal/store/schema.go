package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	sqlschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	events "github.com/abhisek/speaktest/ent/schema"
)

const (
	apiTable = "api_request_events"
	llmTable = "llm_request_events"
)

// eventSchemas maps each event table to the ent schema that defines it.
var eventSchemas = []struct {
	table  string
	schema ent.Interface
}{
	{apiTable, events.APIRequestEvent{}},
	{llmTable, events.LLMRequestEvent{}},
}

// migrate creates or upgrades the event tables through ent's migration
// engine.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables, err := migrationTables()
	if err != nil {
		return err
	}
	m, err := sqlschema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("ent/migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

func migrationTables() ([]*sqlschema.Table, error) {
	tables := make([]*sqlschema.Table, 0, len(eventSchemas))
	for _, es := range eventSchemas {
		t, err := tableFor(es.table, es.schema)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// tableFor describes an ent schema (mixins first) as a migration table with
// an auto-increment id primary key.
func tableFor(name string, s ent.Interface) (*sqlschema.Table, error) {
	id := &sqlschema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := &sqlschema.Table{
		Name:       name,
		Columns:    []*sqlschema.Column{id},
		PrimaryKey: []*sqlschema.Column{id},
	}

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	columns := make(map[string]*sqlschema.Column, len(fields))
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		c := &sqlschema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Size:     int64(d.Size),
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
		}
		// Function defaults (time.Now) are applied on insert, not by SQLite.
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			c.Default = d.Default
		}
		t.Columns = append(t.Columns, c)
		columns[d.Name] = c
	}

	for _, ix := range indexes {
		d := ix.Descriptor()
		cols := make([]*sqlschema.Column, 0, len(d.Fields))
		for _, fn := range d.Fields {
			c, ok := columns[fn]
			if !ok {
				return nil, fmt.Errorf("%s: index on unknown field %q", name, fn)
			}
			cols = append(cols, c)
		}
		t.Indexes = append(t.Indexes, &sqlschema.Index{
			Name:    name + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: cols,
		})
	}
	return t, nil
}
