package telemetry

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type contextKey string

// gormHook registers a callback before or after one built-in GORM step
type gormHook struct {
	op     string
	before func(name string, fn func(*gorm.DB)) error
	after  func(name string, fn func(*gorm.DB)) error
}

func gormHooks(db *gorm.DB) []gormHook {
	cb := db.Callback()
	return []gormHook{
		{"create",
			func(n string, fn func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Create().After("gorm:create").Register(n, fn) }},
		{"query",
			func(n string, fn func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Query().After("gorm:query").Register(n, fn) }},
		{"update",
			func(n string, fn func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Update().After("gorm:update").Register(n, fn) }},
		{"delete",
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().After("gorm:delete").Register(n, fn) }},
		{"row",
			func(n string, fn func(*gorm.DB)) error { return cb.Row().Before("gorm:row").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Row().After("gorm:row").Register(n, fn) }},
		{"raw",
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().Before("gorm:raw").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().After("gorm:raw").Register(n, fn) }},
	}
}

// registerTiming installs a start-time hook under key and an after hook
// receiving the operation name and elapsed time for every GORM step
func registerTiming(db *gorm.DB, prefix string, key contextKey, after func(db *gorm.DB, op string, elapsed time.Duration, timed bool)) error {
	start := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, key, time.Now())
		}
	}
	for _, h := range gormHooks(db) {
		op := h.op
		if err := h.before(prefix+":before_"+op, start); err != nil {
			return err
		}
		if err := h.after(prefix+":after_"+op, func(tx *gorm.DB) {
			var elapsed time.Duration
			timed := false
			if tx.Statement.Context != nil {
				if t, ok := tx.Statement.Context.Value(key).(time.Time); ok {
					elapsed, timed = time.Since(t), true
				}
			}
			after(tx, op, elapsed, timed)
		}); err != nil {
			return err
		}
	}
	return nil
}
