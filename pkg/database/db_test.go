package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorSupportedDrivers(t *testing.T) {
	for _, driver := range []string{"sqlite", "postgres", "mysql", "sqlserver"} {
		d, err := Dialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.NotNil(t, d, driver)
	}
}

func TestDialectorUnknownDriver(t *testing.T) {
	_, err := Dialector("oracle", "dsn")
	assert.ErrorContains(t, err, `unsupported DB_DRIVER "oracle"`)
}

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := Open("sqlite", "file:dbtest?mode=memory&cache=shared")
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation(`SELECT * FROM "bazar_products"`))
	assert.Equal(t, "insert", operation("  insert into users values (1)"))
	assert.Equal(t, "other", operation("PRAGMA foreign_keys"))
}
