package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-3")

	t.Run("errors are logged", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, 200*time.Millisecond)

		l.Trace(ctx, time.Now(), sqlFn("SELECT 1", 0), errors.New("connection reset"))

		entries := logs.FilterMessage("SQL error").All()
		assert.Len(t, entries, 1)
		assert.Equal(t, "req-3", entries[0].ContextMap()["request_id"])
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, 200*time.Millisecond)

		l.Trace(ctx, time.Now(), sqlFn("SELECT * FROM orders", 0), gorm.ErrRecordNotFound)
		assert.Zero(t, logs.Len())
	})

	t.Run("slow queries warn", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, 10*time.Millisecond)

		l.Trace(ctx, time.Now().Add(-time.Second), sqlFn("UPDATE product_variants SET stock = stock - 1", 1), nil)
		assert.Equal(t, 1, logs.FilterMessage("Slow SQL").Len())
	})

	t.Run("fast queries only at info", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, time.Second)

		l.Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), nil)
		assert.Zero(t, logs.Len())

		l.LogMode(gormlogger.Info).Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), nil)
		assert.Equal(t, 1, logs.FilterMessage("SQL").Len())
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Silent, time.Millisecond)

		l.Trace(ctx, time.Now().Add(-time.Second), sqlFn("SELECT 1", 1), errors.New("x"))
		assert.Zero(t, logs.Len())
	})
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
}
