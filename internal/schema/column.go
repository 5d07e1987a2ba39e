package schema

import (
	"fmt"
	"reflect"

	GORMSchema "gorm.io/gorm/schema"
)

// Column represents a gorm field
type Column struct {
	*GORMSchema.Field
}

// Type is the gorm data type, or the explicit column type from the tag.
func (c *Column) Type() string {
	if t, ok := c.TagSettings["TYPE"]; ok {
		return t
	}
	return string(c.DataType)
}

func (c *Column) ColumnName() string {
	return c.DBName
}

func (c *Column) ColumnTag() reflect.StructTag {
	return c.Tag
}

// Constraints lists the column's key, nullability, size and default flags.
func (c *Column) Constraints() []string {
	var out []string
	if c.PrimaryKey {
		out = append(out, "pk")
	}
	if c.NotNull {
		out = append(out, "not null")
	}
	if c.Unique {
		out = append(out, "unique")
	}
	if c.Size > 0 {
		out = append(out, fmt.Sprintf("size=%d", c.Size))
	}
	if c.HasDefaultValue && c.DefaultValue != "" {
		out = append(out, "default="+c.DefaultValue)
	}
	return out
}
