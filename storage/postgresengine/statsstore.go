package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/kitaplik/circulation-ledger-go/statistics"
	"github.com/kitaplik/circulation-ledger-go/storage"
)

const (
	defaultStatisticsTableName = "circulation_statistics"

	// The document lives in a single well-known row; the id column only
	// exists to give the upsert a conflict target.
	statisticsDocumentID = "circulation"

	colDocument = "document"

	opStatsRead = "statsstore.read"
	opStatsSave = "statsstore.save"

	logMsgStatsQueryFailed    = "statistics store query execution failed"
	logMsgStatsExecFailed     = "statistics store statement execution failed"
	logMsgStatsScanFailed     = "failed to scan statistics document row"
	logMsgStatsDocumentFailed = "failed to encode or decode statistics document"
	logMsgBuildStatsFailed    = "failed to build statistics store query"
)

// StatisticsStore is the PostgreSQL implementation of the statistics
// engine's store contract. The whole document is one JSONB row, read and
// replaced atomically, which gives the engine's read-modify-write cycle
// the per-save transactionality the contract requires.
type StatisticsStore struct {
	engine
}

// NewStatisticsStoreFromPGXPool creates a StatisticsStore using a pgx pool with optional configuration.
func NewStatisticsStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (StatisticsStore, error) {
	e, err := newEngineFromPGXPool(db, defaultStatisticsTableName, options)
	if err != nil {
		return StatisticsStore{}, err
	}

	return StatisticsStore{engine: e}, nil
}

// NewStatisticsStoreFromSQLDB creates a StatisticsStore using a sql.DB with optional configuration.
func NewStatisticsStoreFromSQLDB(db *sql.DB, options ...Option) (StatisticsStore, error) {
	e, err := newEngineFromSQLDB(db, defaultStatisticsTableName, options)
	if err != nil {
		return StatisticsStore{}, err
	}

	return StatisticsStore{engine: e}, nil
}

// NewStatisticsStoreFromSQLX creates a StatisticsStore using a sqlx.DB with optional configuration.
func NewStatisticsStoreFromSQLX(db *sqlx.DB, options ...Option) (StatisticsStore, error) {
	e, err := newEngineFromSQLX(db, defaultStatisticsTableName, options)
	if err != nil {
		return StatisticsStore{}, err
	}

	return StatisticsStore{engine: e}, nil
}

// Read returns the persisted document, or an empty one when no row exists yet.
func (s StatisticsStore) Read(ctx context.Context) (statistics.Document, error) {
	ctx, finish := s.startSpan(ctx, opStatsRead)

	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(colDocument).
		Where(goqu.Ex{colID: statisticsDocumentID})

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		s.logError(ctx, logMsgBuildStatsFailed, logAttrError, toSQLErr.Error())
		finish(spanStatusError)

		return statistics.Document{}, errors.Join(storage.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, opStatsRead, sqlQuery, duration)

	if queryErr != nil {
		s.logError(ctx, logMsgStatsQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		s.recordError(ctx, opStatsRead)
		finish(spanStatusError)

		return statistics.Document{}, errors.Join(storage.ErrQueryFailed, queryErr)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}()

	if !rows.Next() {
		finish(spanStatusSuccess)
		return statistics.NewDocument(), nil
	}

	var documentJSON []byte
	if scanErr := rows.Scan(&documentJSON); scanErr != nil {
		s.logError(ctx, logMsgStatsScanFailed, logAttrError, scanErr.Error())
		s.recordError(ctx, opStatsRead)
		finish(spanStatusError)

		return statistics.Document{}, errors.Join(storage.ErrScanningRowFailed, scanErr)
	}

	doc := statistics.NewDocument()
	if unmarshalErr := jsoniter.ConfigFastest.Unmarshal(documentJSON, &doc); unmarshalErr != nil {
		s.logError(ctx, logMsgStatsDocumentFailed, logAttrError, unmarshalErr.Error())
		s.recordError(ctx, opStatsRead)
		finish(spanStatusError)

		return statistics.Document{}, errors.Join(storage.ErrInvalidDocumentJSON, unmarshalErr)
	}

	s.recordOperation(ctx, opStatsRead, duration)
	finish(spanStatusSuccess)

	return doc, nil
}

// Save replaces the persisted document in a single upsert statement.
func (s StatisticsStore) Save(ctx context.Context, doc statistics.Document) error {
	ctx, finish := s.startSpan(ctx, opStatsSave)

	documentJSON, marshalErr := jsoniter.ConfigFastest.Marshal(doc)
	if marshalErr != nil {
		s.logError(ctx, logMsgStatsDocumentFailed, logAttrError, marshalErr.Error())
		finish(spanStatusError)

		return errors.Join(storage.ErrInvalidDocumentJSON, marshalErr)
	}

	record := goqu.Record{
		colID:       statisticsDocumentID,
		colDocument: goqu.L(castJsonb, string(documentJSON)),
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tableName).
		Rows(record).
		OnConflict(goqu.DoUpdate(colID, record))

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		s.logError(ctx, logMsgBuildStatsFailed, logAttrError, toSQLErr.Error())
		finish(spanStatusError)

		return errors.Join(storage.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	_, execErr := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, opStatsSave, sqlQuery, duration)

	if execErr != nil {
		s.logError(ctx, logMsgStatsExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		s.recordError(ctx, opStatsSave)
		finish(spanStatusError)

		return errors.Join(storage.ErrExecFailed, execErr)
	}

	s.recordOperation(ctx, opStatsSave, duration)
	s.logInfo(ctx, logMsgOperation+opStatsSave, logAttrDurationMS, durationToMilliseconds(duration))
	finish(spanStatusSuccess)

	return nil
}
