package postgresengine_test

import (
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitaplik/circulation-ledger-go/config"
	"github.com/kitaplik/circulation-ledger-go/storage"
	"github.com/kitaplik/circulation-ledger-go/storage/postgresengine"
)

// sql.Open does not connect, so factory validation can be tested without
// a running database.
func openSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("postgres", config.PostgresDSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func openSQLXDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("postgres", config.PostgresDSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func Test_FactoryFunctions_BookStore_ShouldFail_WithNilDatabaseConnection(t *testing.T) {
	testCases := []struct {
		name        string
		factoryFunc func() (postgresengine.BookStore, error)
	}{
		{
			name: "NewBookStoreFromPGXPool with nil",
			factoryFunc: func() (postgresengine.BookStore, error) {
				return postgresengine.NewBookStoreFromPGXPool(nil)
			},
		},
		{
			name: "NewBookStoreFromSQLDB with nil",
			factoryFunc: func() (postgresengine.BookStore, error) {
				return postgresengine.NewBookStoreFromSQLDB(nil)
			},
		},
		{
			name: "NewBookStoreFromSQLX with nil",
			factoryFunc: func() (postgresengine.BookStore, error) {
				return postgresengine.NewBookStoreFromSQLX(nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := tc.factoryFunc()

			// assert
			assert.ErrorContains(t, err, storage.ErrNilDatabaseConnection.Error())
		})
	}
}

func Test_FactoryFunctions_StatisticsStore_ShouldFail_WithNilDatabaseConnection(t *testing.T) {
	testCases := []struct {
		name        string
		factoryFunc func() (postgresengine.StatisticsStore, error)
	}{
		{
			name: "NewStatisticsStoreFromPGXPool with nil",
			factoryFunc: func() (postgresengine.StatisticsStore, error) {
				return postgresengine.NewStatisticsStoreFromPGXPool(nil)
			},
		},
		{
			name: "NewStatisticsStoreFromSQLDB with nil",
			factoryFunc: func() (postgresengine.StatisticsStore, error) {
				return postgresengine.NewStatisticsStoreFromSQLDB(nil)
			},
		},
		{
			name: "NewStatisticsStoreFromSQLX with nil",
			factoryFunc: func() (postgresengine.StatisticsStore, error) {
				return postgresengine.NewStatisticsStoreFromSQLX(nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := tc.factoryFunc()

			// assert
			assert.ErrorContains(t, err, storage.ErrNilDatabaseConnection.Error())
		})
	}
}

func Test_FactoryFunctions_ShouldFail_WithEmptyTableName(t *testing.T) {
	testCases := []struct {
		name        string
		factoryFunc func(t *testing.T) error
	}{
		{
			name: "NewBookStoreFromSQLDB with empty table name",
			factoryFunc: func(t *testing.T) error {
				_, err := postgresengine.NewBookStoreFromSQLDB(openSQLDB(t), postgresengine.WithTableName(""))
				return err
			},
		},
		{
			name: "NewBookStoreFromSQLX with empty table name",
			factoryFunc: func(t *testing.T) error {
				_, err := postgresengine.NewBookStoreFromSQLX(openSQLXDB(t), postgresengine.WithTableName(""))
				return err
			},
		},
		{
			name: "NewStatisticsStoreFromSQLDB with empty table name",
			factoryFunc: func(t *testing.T) error {
				_, err := postgresengine.NewStatisticsStoreFromSQLDB(openSQLDB(t), postgresengine.WithTableName(""))
				return err
			},
		},
		{
			name: "NewStatisticsStoreFromSQLX with empty table name",
			factoryFunc: func(t *testing.T) error {
				_, err := postgresengine.NewStatisticsStoreFromSQLX(openSQLXDB(t), postgresengine.WithTableName(""))
				return err
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := tc.factoryFunc(t)

			// assert
			assert.ErrorContains(t, err, storage.ErrEmptyTableName.Error())
		})
	}
}

func Test_FactoryFunctions_CustomTableNameAccepted(t *testing.T) {
	// act
	_, err := postgresengine.NewBookStoreFromSQLDB(openSQLDB(t), postgresengine.WithTableName("library_books"))

	// assert
	assert.NoError(t, err)
}
