package migration_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/bazar/pkg/migration"
)

type widget struct {
	ID   uint
	Name string
}

type gadget struct {
	ID uint
}

type create struct{ model interface{} }

func (c create) Up(db *gorm.DB) error   { return db.AutoMigrate(c.model) }
func (c create) Down(db *gorm.DB) error { return db.Migrator().DropTable(c.model) }

type broken struct{}

func (broken) Up(*gorm.DB) error   { return errors.New("boom") }
func (broken) Down(*gorm.DB) error { return nil }

func open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRunThenRollback(t *testing.T) {
	ctx := context.Background()
	db := open(t)
	var out bytes.Buffer

	first := migration.New(db, &out, migration.Entry{Name: "0001_widgets", Migration: create{&widget{}}})
	require.NoError(t, first.Run(ctx))
	assert.True(t, db.Migrator().HasTable(&widget{}))

	entries := []migration.Entry{
		{Name: "0001_widgets", Migration: create{&widget{}}},
		{Name: "0002_gadgets", Migration: create{&gadget{}}},
	}
	runner := migration.New(db, &out, entries...)

	pending, err := runner.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "0002_gadgets", pending[0].Name)

	require.NoError(t, runner.Run(ctx))
	assert.True(t, db.Migrator().HasTable(&gadget{}))

	require.NoError(t, runner.Rollback(ctx))
	assert.False(t, db.Migrator().HasTable(&gadget{}))
	assert.True(t, db.Migrator().HasTable(&widget{}))

	out.Reset()
	require.NoError(t, runner.Status(ctx))
	assert.Regexp(t, `0001_widgets\s+Ran\s+1`, out.String())
	assert.Regexp(t, `0002_gadgets\s+Pending`, out.String())
}

func TestNothingToDo(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	runner := migration.New(open(t), &out, migration.Entry{Name: "0001_widgets", Migration: create{&widget{}}})

	require.NoError(t, runner.Rollback(ctx))
	assert.Contains(t, out.String(), "Nothing to roll back.")

	require.NoError(t, runner.Run(ctx))
	out.Reset()
	require.NoError(t, runner.Run(ctx))
	assert.Contains(t, out.String(), "Nothing to migrate.")
}

func TestFailedMigrationIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	runner := migration.New(open(t), nil, migration.Entry{Name: "0001_broken", Migration: broken{}})

	assert.ErrorContains(t, runner.Run(ctx), "0001_broken up: boom")

	pending, err := runner.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
