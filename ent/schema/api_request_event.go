package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// APIRequestEvent records one call to the speaking-test backend.
type APIRequestEvent struct {
	ent.Schema
}

func (APIRequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (APIRequestEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("request_id").
			Comment("Value of the X-Request-ID header"),
		field.String("operation").
			Comment("list, create or delete"),
		field.String("method"),
		field.String("url"),
		field.Int64("record_id").
			Default(0).
			Comment("Target record for delete, created record for create"),
		field.Int("status_code").
			Default(0).
			Comment("HTTP status; 0 when no response arrived"),
		field.Int64("latency_ms").
			Default(0),
		field.Bool("success"),
		field.String("error_message").
			Default(""),
	}
}

func (APIRequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("operation"),
		index.Fields("success"),
	}
}
