package store

import (
	"reflect"
	"time"

	"gorm.io/gorm"
)

// UTCTimes is a gorm plugin that writes every time value in UTC. sqlite
// keeps datetimes as text, so rows written from different zones only
// compare correctly once they share one offset.
type UTCTimes struct{}

func (UTCTimes) Name() string {
	return "rentfolio:utc_times"
}

func (UTCTimes) Initialize(db *gorm.DB) error {
	db.Config.NowFunc = func() time.Time {
		return time.Now().UTC()
	}
	if err := db.Callback().Create().Before("gorm:create").Register("rentfolio:utc_times", normalizeTimes); err != nil {
		return err
	}
	return db.Callback().Update().Before("gorm:update").Register("rentfolio:utc_times", normalizeTimes)
}

func normalizeTimes(db *gorm.DB) {
	stmt := db.Statement
	if m, ok := stmt.Dest.(map[string]interface{}); ok {
		for k, v := range m {
			m[k] = utc(v)
		}
		return
	}
	if stmt.Schema == nil {
		return
	}

	rv := stmt.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			normalizeFields(db, reflect.Indirect(rv.Index(i)))
		}
	case reflect.Struct:
		normalizeFields(db, rv)
	}
}

func normalizeFields(db *gorm.DB, rv reflect.Value) {
	if !rv.CanAddr() {
		return
	}
	ctx := db.Statement.Context
	for _, field := range db.Statement.Schema.Fields {
		v, zero := field.ValueOf(ctx, rv)
		if zero {
			continue
		}
		switch v.(type) {
		case time.Time, *time.Time:
			if err := field.Set(ctx, rv, utc(v)); err != nil {
				_ = db.AddError(err)
				return
			}
		}
	}
}

func utc(v interface{}) interface{} {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case *time.Time:
		if t == nil {
			return t
		}
		u := t.UTC()
		return &u
	}
	return v
}
