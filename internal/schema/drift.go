package schema

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// TableDiff lists the column differences for one table.
type TableDiff struct {
	Table          string
	MissingColumns []string // in the model, absent from the database
	ExtraColumns   []string // in the database, absent from the model
}

// IsEmpty reports whether the table matches its model.
func (d *TableDiff) IsEmpty() bool {
	return len(d.MissingColumns) == 0 && len(d.ExtraColumns) == 0
}

// Diff is the difference between the models and a live database.
type Diff struct {
	MissingTables  []string
	TablesToModify []TableDiff
}

// IsEmpty reports whether the database matches every model.
func (d *Diff) IsEmpty() bool {
	return len(d.MissingTables) == 0 && len(d.TablesToModify) == 0
}

// Compare checks each table against the database. Tables the database has
// but no model describes are not reported.
func Compare(ctx context.Context, db *gorm.DB, tables []*Table) (*Diff, error) {
	migrator := db.WithContext(ctx).Migrator()
	diff := &Diff{}

	for _, t := range tables {
		if !migrator.HasTable(t.TableName()) {
			diff.MissingTables = append(diff.MissingTables, t.TableName())
			continue
		}

		columnTypes, err := migrator.ColumnTypes(t.TableName())
		if err != nil {
			return nil, fmt.Errorf("failed to read columns of %s: %w", t.TableName(), err)
		}
		live := make(map[string]bool, len(columnTypes))
		for _, ct := range columnTypes {
			live[strings.ToLower(ct.Name())] = true
		}

		td := TableDiff{Table: t.TableName()}
		for _, c := range t.Columns {
			name := strings.ToLower(c.ColumnName())
			if !live[name] {
				td.MissingColumns = append(td.MissingColumns, c.ColumnName())
			}
			delete(live, name)
		}
		for name := range live {
			td.ExtraColumns = append(td.ExtraColumns, name)
		}
		sort.Strings(td.ExtraColumns)

		if !td.IsEmpty() {
			diff.TablesToModify = append(diff.TablesToModify, td)
		}
	}
	return diff, nil
}

// WriteDiff prints the diff, or a single line when there is none.
func WriteDiff(w io.Writer, d *Diff) {
	if d.IsEmpty() {
		fmt.Fprintln(w, "No schema changes detected")
		return
	}
	for _, t := range d.MissingTables {
		fmt.Fprintf(w, "missing table  %s\n", t)
	}
	for _, td := range d.TablesToModify {
		for _, c := range td.MissingColumns {
			fmt.Fprintf(w, "missing column %s.%s\n", td.Table, c)
		}
		for _, c := range td.ExtraColumns {
			fmt.Fprintf(w, "extra column   %s.%s\n", td.Table, c)
		}
	}
}
