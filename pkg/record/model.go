package record

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var schemaCache sync.Map

// ModelRecord adapts a GORM model pointer to Record. Attributes resolve by Go
// field name or column name, and writes go through the schema field setter so
// values are cast to the column's Go type.
type ModelRecord struct {
	model  any
	schema *schema.Schema
	value  reflect.Value
}

var _ Record = (*ModelRecord)(nil)

// NewModelRecord parses the model's GORM schema. model must be a non-nil
// pointer to a struct.
func NewModelRecord(model any) (*ModelRecord, error) {
	if model == nil {
		return nil, errors.New("record: model is required")
	}
	rv := reflect.ValueOf(model)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("record: model must be a pointer to a struct, got %T", model)
	}

	parsed, err := schema.Parse(model, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("record: parse schema for %T: %w", model, err)
	}

	return &ModelRecord{
		model:  model,
		schema: parsed,
		value:  rv.Elem(),
	}, nil
}

// Model returns the wrapped model pointer.
func (r *ModelRecord) Model() any {
	if r == nil {
		return nil
	}
	return r.model
}

// Get returns nil for unknown attributes.
func (r *ModelRecord) Get(name string) any {
	if r == nil || r.schema == nil {
		return nil
	}
	field := r.schema.LookUpField(name)
	if field == nil {
		return nil
	}
	value, _ := field.ValueOf(context.Background(), r.value)
	return value
}

func (r *ModelRecord) SetCastedField(name string, value any) error {
	if r == nil || r.schema == nil {
		return errors.New("record: model record is nil")
	}
	field := r.schema.LookUpField(name)
	if field == nil {
		return fmt.Errorf("record: %s has no attribute %q", r.schema.Name, name)
	}
	if err := field.Set(context.Background(), r.value, value); err != nil {
		return fmt.Errorf("record: set %s.%s: %w", r.schema.Name, field.Name, err)
	}
	return nil
}

// Save persists the model.
func (r *ModelRecord) Save(ctx context.Context, db *gorm.DB) error {
	if r == nil {
		return errors.New("record: model record is nil")
	}
	if db == nil {
		return errors.New("record: db is required")
	}
	if err := db.WithContext(ctx).Save(r.model).Error; err != nil {
		return fmt.Errorf("record: save %s: %w", r.schema.Name, err)
	}
	return nil
}
