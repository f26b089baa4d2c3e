package postgresengine

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/kitaplik/circulation-ledger-go/storage"
	"github.com/kitaplik/circulation-ledger-go/storage/postgresengine/internal/adapters"
)

const dialectPostgres = "postgres"

// engine carries the wiring shared by the book store and the statistics
// store: the database adapter, the configured table name and the optional
// observability collaborators.
type engine struct {
	db               adapters.DBAdapter
	tableName        string
	logger           storage.Logger
	contextualLogger storage.ContextualLogger
	metricsCollector storage.MetricsCollector
	tracingCollector storage.TracingCollector
}

func newEngineFromPGXPool(db *pgxpool.Pool, defaultTable string, options []Option) (engine, error) {
	if db == nil {
		return engine{}, storage.ErrNilDatabaseConnection
	}

	return applyOptions(engine{db: adapters.NewPGXAdapter(db), tableName: defaultTable}, options)
}

func newEngineFromSQLDB(db *sql.DB, defaultTable string, options []Option) (engine, error) {
	if db == nil {
		return engine{}, storage.ErrNilDatabaseConnection
	}

	return applyOptions(engine{db: adapters.NewSQLAdapter(db), tableName: defaultTable}, options)
}

func newEngineFromSQLX(db *sqlx.DB, defaultTable string, options []Option) (engine, error) {
	if db == nil {
		return engine{}, storage.ErrNilDatabaseConnection
	}

	return applyOptions(engine{db: adapters.NewSQLXAdapter(db), tableName: defaultTable}, options)
}

func applyOptions(e engine, options []Option) (engine, error) {
	for _, option := range options {
		if err := option(&e); err != nil {
			return engine{}, err
		}
	}

	return e, nil
}
