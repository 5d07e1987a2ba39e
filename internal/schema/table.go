// Package schema describes the tables gorm derives from the persisted models.
package schema

import (
	"fmt"
	"io"
	"strings"
	"sync"

	GORMSchema "gorm.io/gorm/schema"
)

// Table represents a gorm model
type Table struct {
	*GORMSchema.Schema
	Columns []*Column
}

func (t *Table) TableName() string {
	return t.Table
}

func (t *Table) TableColumns() []*Column {
	return t.Columns
}

// Column returns the column with the given database name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.ColumnName() == name {
			return c
		}
	}
	return nil
}

// CreateTableFromModel parses one model. cache may be shared across calls so
// associations are parsed once.
func CreateTableFromModel(model interface{}, cache *sync.Map) (*Table, error) {
	modelSchema, err := GORMSchema.Parse(model, cache, GORMSchema.NamingStrategy{})
	if err != nil {
		return nil, err
	}

	columns := make([]*Column, 0, len(modelSchema.Fields))
	for _, field := range modelSchema.Fields {
		// Association fields have no column.
		if field.DBName == "" {
			continue
		}
		columns = append(columns, &Column{Field: field})
	}

	return &Table{Schema: modelSchema, Columns: columns}, nil
}

// Describe parses every model in order.
func Describe(models ...interface{}) ([]*Table, error) {
	cache := &sync.Map{}
	tables := make([]*Table, 0, len(models))
	for _, m := range models {
		t, err := CreateTableFromModel(m, cache)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", m, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Write prints one block per table in the same fixed-width layout the
// migrate commands use.
func Write(w io.Writer, tables []*Table) error {
	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if _, err := fmt.Fprintf(w, "%s (%s)\n", t.TableName(), t.Name); err != nil {
			return err
		}
		fmt.Fprintf(w, "  %-24s  %-12s  %s\n", "Column", "Type", "Constraints")
		for _, c := range t.Columns {
			fmt.Fprintf(w, "  %-24s  %-12s  %s\n", c.ColumnName(), c.Type(), strings.Join(c.Constraints(), ","))
		}
	}
	return nil
}
