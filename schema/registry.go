// Package schema is the entity-schema metadata registry (C1): declarative
// table, column, and relation descriptors keyed by entity constructor,
// installed once at process start and read thereafter by the query
// composer.
package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/puzpuzpuz/xsync/v4"
)

type entityDescriptor struct {
	table     *TableDescriptor
	columns   *xsync.Map[string, *ColumnDescriptor]
	relations *xsync.Map[string, *RelationDescriptor]
	// columnOrder records field names in registration order. xsync.Map's
	// Range order is unspecified, but the composer's seed projection must be
	// stable and match declaration order, so registration appends here too.
	columnOrder []string
}

// Registry holds every entity descriptor installed in a process. Reads are
// lock-free; writes only happen while entity packages are being loaded.
type Registry struct {
	entities *xsync.Map[reflect.Type, *entityDescriptor]
	validate *validator.Validate
}

// NewRegistry creates an empty registry. Most callers use the process-wide
// Default registry instead of constructing their own.
func NewRegistry() *Registry {
	return &Registry{
		entities: xsync.NewMap[reflect.Type, *entityDescriptor](),
		validate: validator.New(),
	}
}

// Default is the process-wide registry entity declarations install into.
var Default = NewRegistry()

func entityType(entity any) (reflect.Type, error) {
	t := reflect.TypeOf(entity)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrNotStructPointer, entity)
	}

	return t.Elem(), nil
}

func (r *Registry) descriptorFor(t reflect.Type) *entityDescriptor {
	d, _ := r.entities.LoadOrCompute(t, func() (*entityDescriptor, bool) {
		return &entityDescriptor{
			columns:   xsync.NewMap[string, *ColumnDescriptor](),
			relations: xsync.NewMap[string, *RelationDescriptor](),
		}, false
	})

	return d
}

// TableOptions configures a table registration.
type TableOptions struct {
	// Name overrides the default table name (lower-cased entity name).
	Name string
}

// RegisterTable installs a table descriptor for entity. Panics if entity is
// not a pointer to a struct (a programming error discovered at init time).
func (r *Registry) RegisterTable(entity any, opts TableOptions) {
	t, err := entityType(entity)
	if err != nil {
		panic(err)
	}

	name := opts.Name
	if name == "" {
		name = strings.ToLower(t.Name())
	}

	r.descriptorFor(t).table = &TableDescriptor{
		TableName:  name,
		EntityName: t.Name(),
	}
}

// RegisterColumn installs a column descriptor for fieldName on entity.
func (r *Registry) RegisterColumn(entity any, fieldName string, opts ColumnOptions) {
	t, err := entityType(entity)
	if err != nil {
		panic(err)
	}

	if err := r.validate.Struct(opts); err != nil {
		panic(fmt.Errorf("%w: field %s.%s: %w", ErrInvalidOptions, t.Name(), fieldName, err))
	}

	columnName := opts.Name
	if columnName == "" {
		columnName = fieldName
	}

	d := r.descriptorFor(t)
	if _, exists := d.columns.Load(fieldName); !exists {
		d.columnOrder = append(d.columnOrder, fieldName)
	}

	d.columns.Store(fieldName, &ColumnDescriptor{
		FieldName:  fieldName,
		ColumnName: columnName,
		Options:    opts,
	})
}

// RegisterRelation installs a relation descriptor for fieldName on entity.
// target is a thunk producing a zero-value pointer to the related entity;
// it is invoked only when the relation is first resolved by the composer,
// which lets mutually-referential entities register in either order.
func (r *Registry) RegisterRelation(entity any, fieldName string, target func() any, opts RelationOptions) {
	t, err := entityType(entity)
	if err != nil {
		panic(err)
	}

	if opts.JoinKind == "" {
		opts.JoinKind = JoinLeft
	}

	if err := r.validate.Struct(opts); err != nil {
		panic(fmt.Errorf("%w: relation %s.%s: %w", ErrInvalidOptions, t.Name(), fieldName, err))
	}

	r.descriptorFor(t).relations.Store(fieldName, &RelationDescriptor{
		FieldName: fieldName,
		Target:    target,
		Options:   opts,
	})
}

// GetTable returns the table descriptor for entityType, or
// ErrTableNotRegistered if none was installed.
func (r *Registry) GetTable(entityType reflect.Type) (*TableDescriptor, error) {
	d, ok := r.entities.Load(entityType)
	if !ok || d.table == nil {
		return nil, fmt.Errorf("%w: %s", ErrTableNotRegistered, entityType.Name())
	}

	return d.table, nil
}

// GetColumns returns the fieldName -> ColumnDescriptor mapping for
// entityType. An entity with no registered columns yields an empty map.
func (r *Registry) GetColumns(entityType reflect.Type) map[string]*ColumnDescriptor {
	d, ok := r.entities.Load(entityType)
	if !ok {
		return map[string]*ColumnDescriptor{}
	}

	out := make(map[string]*ColumnDescriptor, d.columns.Size())
	d.columns.Range(func(key string, value *ColumnDescriptor) bool {
		out[key] = value

		return true
	})

	return out
}

// ListColumns returns the column descriptors for entityType in registration
// order. The composer's seed projection uses this instead of GetColumns so
// that output column order is stable and matches declaration order rather
// than a map's unspecified iteration order.
func (r *Registry) ListColumns(entityType reflect.Type) []*ColumnDescriptor {
	d, ok := r.entities.Load(entityType)
	if !ok {
		return nil
	}

	out := make([]*ColumnDescriptor, 0, len(d.columnOrder))

	for _, name := range d.columnOrder {
		if col, ok := d.columns.Load(name); ok {
			out = append(out, col)
		}
	}

	return out
}

// GetRelations returns the fieldName -> RelationDescriptor mapping for entityType.
func (r *Registry) GetRelations(entityType reflect.Type) map[string]*RelationDescriptor {
	d, ok := r.entities.Load(entityType)
	if !ok {
		return map[string]*RelationDescriptor{}
	}

	out := make(map[string]*RelationDescriptor, d.relations.Size())
	d.relations.Range(func(key string, value *RelationDescriptor) bool {
		out[key] = value

		return true
	})

	return out
}

// TypeOf resolves the reflect.Type key for a pointer to an entity struct
// (any other value yields ErrNotStructPointer), as used by callers that need to address GetTable/GetColumns/GetRelations
// without going through a Register* call.
func TypeOf(entity any) (reflect.Type, error) {
	return entityType(entity)
}

// Package-level convenience wrappers over Default.

// RegisterTable installs a table descriptor for entity in the Default registry.
func RegisterTable(entity any, opts TableOptions) { Default.RegisterTable(entity, opts) }

// RegisterColumn installs a column descriptor for fieldName on entity in the Default registry.
func RegisterColumn(entity any, fieldName string, opts ColumnOptions) {
	Default.RegisterColumn(entity, fieldName, opts)
}

// RegisterRelation installs a relation descriptor for fieldName on entity in the Default registry.
func RegisterRelation(entity any, fieldName string, target func() any, opts RelationOptions) {
	Default.RegisterRelation(entity, fieldName, target, opts)
}

// GetTable returns the table descriptor for entityType from the Default registry.
func GetTable(entityType reflect.Type) (*TableDescriptor, error) { return Default.GetTable(entityType) }

// GetColumns returns the column descriptors for entityType from the Default registry.
func GetColumns(entityType reflect.Type) map[string]*ColumnDescriptor {
	return Default.GetColumns(entityType)
}

// ListColumns returns the column descriptors for entityType, in
// registration order, from the Default registry.
func ListColumns(entityType reflect.Type) []*ColumnDescriptor {
	return Default.ListColumns(entityType)
}

// GetRelations returns the relation descriptors for entityType from the Default registry.
func GetRelations(entityType reflect.Type) map[string]*RelationDescriptor {
	return Default.GetRelations(entityType)
}
