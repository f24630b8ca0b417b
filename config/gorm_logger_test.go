package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Warn)
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	l.Trace(ctx, time.Now(), query, nil)
	assert.Zero(t, logs.Len())

	l.Trace(ctx, time.Now(), query, errors.New("relation does not exist"))
	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "query failed", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
	assert.Equal(t, "slow query", entries[1].Message)
	assert.Equal(t, "gorm", entries[1].LoggerName)
}

func TestGormLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Warn)
	ctx := context.Background()

	l.Info(ctx, "hidden %d", 1)
	l.Warn(ctx, "visible %s", "warn")
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "visible warn", logs.All()[0].Message)

	silent := l.LogMode(gormlogger.Silent)
	silent.Error(ctx, "dropped")
	silent.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("x"))
	assert.Equal(t, 1, logs.Len())

	verbose := l.LogMode(gormlogger.Info)
	verbose.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 2", 3 }, nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "query", logs.All()[1].Message)
}
