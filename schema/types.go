package schema

// JoinKind identifies the SQL join variant used when composing a relation.
type JoinKind string

const (
	// JoinLeft performs a LEFT JOIN. It is the default for a HasMany relation.
	JoinLeft JoinKind = "left"
	// JoinInner performs an INNER JOIN.
	JoinInner JoinKind = "inner"
	// JoinRight performs a RIGHT JOIN.
	JoinRight JoinKind = "right"
)

// TableDescriptor names the table an entity maps to.
type TableDescriptor struct {
	// TableName is the SQL table name. Defaults to the lower-cased entity name.
	TableName string
	// EntityName is the Go type name the descriptor was registered against.
	EntityName string
}

// ColumnOptions configures a registered column.
type ColumnOptions struct {
	// Name overrides the SQL column name. Defaults to the field name.
	Name string `validate:"omitempty"`
	// SqlType optionally records the column's SQL type (e.g. "numeric(12,2)"),
	// informational only for the compiler.
	SqlType string `validate:"omitempty"`
	// Nullable marks the column as nullable, informational only; the
	// translator's `== null` -> `IS NULL` rewrite keys on the null literal
	// and does not read this flag.
	Nullable bool
	// Default is a raw SQL default expression, informational only for the compiler.
	Default string `validate:"omitempty"`
	// Unique marks the column as carrying a unique constraint, informational only.
	Unique bool
	// Primary marks the column as (part of) the primary key, informational only.
	Primary bool
	// Length is the declared column length, e.g. for varchar(N). Must be >= 0.
	Length int `validate:"gte=0"`
}

// ColumnDescriptor is the metadata record for one mapped field.
type ColumnDescriptor struct {
	// FieldName is the name the column was registered under; callbacks and
	// output aliases address the column by it.
	FieldName string
	// ColumnName is the SQL column name. Defaults to FieldName.
	ColumnName string
	// Options holds the column's optional metadata.
	Options ColumnOptions
}

// RelationOptions configures a registered relation.
type RelationOptions struct {
	// ForeignKey is the column on the owning side of the join.
	ForeignKey string `validate:"required"`
	// PrincipalKey is the column on the related side of the join.
	PrincipalKey string `validate:"required"`
	// JoinKind selects the SQL join variant. Defaults to JoinLeft.
	JoinKind JoinKind `validate:"omitempty,oneof=left inner right"`
	// Nullable marks the relation as optional, informational only.
	Nullable bool
	// Eager marks the relation for eager loading, informational only; the
	// composer does not act on this flag.
	Eager bool
}

// RelationDescriptor is the metadata record for one mapped relation field.
type RelationDescriptor struct {
	// FieldName is the name the relation was registered under; include()
	// and the dot-prefixed column aliases address the relation by it.
	FieldName string
	// Target is a thunk producing a zero-value pointer to the related
	// entity. It is resolved lazily so mutually-referential entities can be
	// declared in either order without an initialization cycle.
	Target func() any
	// Options holds the relation's join metadata.
	Options RelationOptions
}
