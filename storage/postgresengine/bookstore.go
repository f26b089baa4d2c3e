package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/kitaplik/circulation-ledger-go/inventory"
	"github.com/kitaplik/circulation-ledger-go/storage"
	"github.com/kitaplik/circulation-ledger-go/storage/postgresengine/internal/adapters"
	"github.com/kitaplik/circulation-ledger-go/textfold"
)

const (
	defaultBooksTableName = "books"

	colID            = "id"
	colTitle         = "title"
	colAuthor        = "author"
	colCategory      = "category"
	colTotalQuantity = "total_quantity"
	colHealthy       = "healthy"
	colDamaged       = "damaged"
	colLost          = "lost"
	colQuantity      = "quantity"
	colShelf         = "shelf"
	colPublisher     = "publisher"
	colSummary       = "summary"
	colBookNumber    = "book_number"
	colYear          = "publication_year"
	colPageCount     = "page_count"
	colLastHandledBy = "last_handled_by"
	colLoans         = "loans"

	castJsonb = "?::jsonb"

	opBookSave     = "bookstore.save"
	opBookFindByID = "bookstore.find_by_id"
	opBookFindAll  = "bookstore.find_all"
	opBookDelete   = "bookstore.delete"
	opBookSearch   = "bookstore.search"

	logMsgBuildBookQueryFailed = "failed to build book store query"
	logMsgBookQueryFailed      = "book store query execution failed"
	logMsgBookExecFailed       = "book store statement execution failed"
	logMsgBookScanFailed       = "failed to scan book row"
	logMsgBookLoansJSONFailed  = "failed to encode or decode loans json"
	logMsgCloseRowsFailed      = "failed to close database rows"

	// translate() maps the Turkish characters in both cases onto ASCII
	// before lowercasing, mirroring textfold.Fold on the Go side.
	foldSourceChars = "ıİşŞğĞüÜöÖçÇ"
	foldTargetChars = "iIsSgGuUoOcC"
)

var bookColumns = []any{
	colID, colTitle, colAuthor, colCategory,
	colTotalQuantity, colHealthy, colDamaged, colLost, colQuantity,
	colShelf, colPublisher, colSummary, colBookNumber, colYear, colPageCount,
	colLastHandledBy, colLoans,
}

// loanRecord is the JSONB shape of one active loan inside the loans column.
type loanRecord struct {
	Borrower  string    `json:"borrower"`
	DueDate   time.Time `json:"due_date"`
	HandledBy string    `json:"handled_by"`
}

// BookStore is the PostgreSQL implementation of the catalog's book-store
// contract: one row per Book, active loans serialized as JSONB, saves as
// upserts so each Save call is atomic.
type BookStore struct {
	engine
}

// NewBookStoreFromPGXPool creates a BookStore using a pgx pool with optional configuration.
func NewBookStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (BookStore, error) {
	e, err := newEngineFromPGXPool(db, defaultBooksTableName, options)
	if err != nil {
		return BookStore{}, err
	}

	return BookStore{engine: e}, nil
}

// NewBookStoreFromSQLDB creates a BookStore using a sql.DB with optional configuration.
func NewBookStoreFromSQLDB(db *sql.DB, options ...Option) (BookStore, error) {
	e, err := newEngineFromSQLDB(db, defaultBooksTableName, options)
	if err != nil {
		return BookStore{}, err
	}

	return BookStore{engine: e}, nil
}

// NewBookStoreFromSQLX creates a BookStore using a sqlx.DB with optional configuration.
func NewBookStoreFromSQLX(db *sqlx.DB, options ...Option) (BookStore, error) {
	e, err := newEngineFromSQLX(db, defaultBooksTableName, options)
	if err != nil {
		return BookStore{}, err
	}

	return BookStore{engine: e}, nil
}

// Save inserts or replaces the Book's row in a single upsert statement.
func (s BookStore) Save(ctx context.Context, book inventory.Book) error {
	ctx, finish := s.startSpan(ctx, opBookSave)

	sqlQuery, buildErr := s.buildUpsertQuery(book)
	if buildErr != nil {
		s.logError(ctx, logMsgBuildBookQueryFailed, logAttrError, buildErr.Error())
		finish(spanStatusError)

		return buildErr
	}

	start := time.Now()
	_, execErr := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, opBookSave, sqlQuery, duration)

	if execErr != nil {
		s.logError(ctx, logMsgBookExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		s.recordError(ctx, opBookSave)
		finish(spanStatusError)

		return errors.Join(storage.ErrExecFailed, execErr)
	}

	s.recordOperation(ctx, opBookSave, duration)
	s.logInfo(ctx, logMsgOperation+opBookSave, logAttrDurationMS, durationToMilliseconds(duration))
	finish(spanStatusSuccess)

	return nil
}

// FindByID loads one Book; the boolean is false when no row exists.
func (s BookStore) FindByID(ctx context.Context, id uuid.UUID) (inventory.Book, bool, error) {
	ctx, finish := s.startSpan(ctx, opBookFindByID)

	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(bookColumns...).
		Where(goqu.Ex{colID: id.String()})

	books, err := s.runSelect(ctx, opBookFindByID, selectStmt)
	if err != nil {
		finish(spanStatusError)
		return inventory.Book{}, false, err
	}

	finish(spanStatusSuccess)

	if len(books) == 0 {
		return inventory.Book{}, false, nil
	}

	return books[0], true, nil
}

// FindAll lists every Book ordered by title.
func (s BookStore) FindAll(ctx context.Context) ([]inventory.Book, error) {
	ctx, finish := s.startSpan(ctx, opBookFindAll)

	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(bookColumns...).
		Order(goqu.I(colTitle).Asc())

	books, err := s.runSelect(ctx, opBookFindAll, selectStmt)
	if err != nil {
		finish(spanStatusError)
		return nil, err
	}

	finish(spanStatusSuccess)

	return books, nil
}

// Delete removes the Book's row. Deleting an absent row is a no-op.
func (s BookStore) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, finish := s.startSpan(ctx, opBookDelete)

	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(s.tableName).
		Where(goqu.Ex{colID: id.String()})

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		s.logError(ctx, logMsgBuildBookQueryFailed, logAttrError, toSQLErr.Error())
		finish(spanStatusError)

		return errors.Join(storage.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	_, execErr := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, opBookDelete, sqlQuery, duration)

	if execErr != nil {
		s.logError(ctx, logMsgBookExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		s.recordError(ctx, opBookDelete)
		finish(spanStatusError)

		return errors.Join(storage.ErrExecFailed, execErr)
	}

	s.recordOperation(ctx, opBookDelete, duration)
	finish(spanStatusSuccess)

	return nil
}

// Search matches the keyword as a folded substring over title, author and
// category, with the folding pushed into SQL. Results are title-ordered.
func (s BookStore) Search(ctx context.Context, keyword string) ([]inventory.Book, error) {
	ctx, finish := s.startSpan(ctx, opBookSearch)

	pattern := "%" + textfold.Fold(keyword) + "%"

	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(bookColumns...).
		Where(goqu.Or(
			foldedColumn(colTitle).Like(pattern),
			foldedColumn(colAuthor).Like(pattern),
			foldedColumn(colCategory).Like(pattern),
		)).
		Order(goqu.I(colTitle).Asc())

	books, err := s.runSelect(ctx, opBookSearch, selectStmt)
	if err != nil {
		finish(spanStatusError)
		return nil, err
	}

	finish(spanStatusSuccess)

	return books, nil
}

func foldedColumn(column string) exp.LiteralExpression {
	return goqu.L(fmt.Sprintf("lower(translate(%s, '%s', '%s'))", column, foldSourceChars, foldTargetChars))
}

func (s BookStore) buildUpsertQuery(book inventory.Book) (string, error) {
	loansJSON, marshalErr := jsoniter.ConfigFastest.Marshal(loanRecordsFrom(book.Loans))
	if marshalErr != nil {
		return "", errors.Join(storage.ErrInvalidLoansJSON, marshalErr)
	}

	record := goqu.Record{
		colID:            book.ID.String(),
		colTitle:         book.Title,
		colAuthor:        book.Author,
		colCategory:      book.Category,
		colTotalQuantity: book.TotalQuantity,
		colHealthy:       book.Conditions.Healthy,
		colDamaged:       book.Conditions.Damaged,
		colLost:          book.Conditions.Lost,
		colQuantity:      book.Quantity,
		colShelf:         book.Shelf,
		colPublisher:     book.Publisher,
		colSummary:       book.Summary,
		colBookNumber:    book.BookNumber,
		colYear:          book.Year,
		colPageCount:     book.PageCount,
		colLastHandledBy: book.LastHandledBy,
		colLoans:         goqu.L(castJsonb, string(loansJSON)),
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tableName).
		Rows(record).
		OnConflict(goqu.DoUpdate(colID, record))

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(storage.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s BookStore) runSelect(ctx context.Context, operation string, selectStmt *goqu.SelectDataset) ([]inventory.Book, error) {
	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		s.logError(ctx, logMsgBuildBookQueryFailed, logAttrError, toSQLErr.Error())
		return nil, errors.Join(storage.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, operation, sqlQuery, duration)

	if queryErr != nil {
		s.logError(ctx, logMsgBookQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		s.recordError(ctx, operation)

		return nil, errors.Join(storage.ErrQueryFailed, queryErr)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}()

	books := make([]inventory.Book, 0)

	for rows.Next() {
		book, scanErr := s.scanBookRow(ctx, rows)
		if scanErr != nil {
			return nil, scanErr
		}

		books = append(books, book)
	}

	s.recordOperation(ctx, operation, duration)
	s.logInfo(ctx, logMsgOperation+operation, logAttrRows, len(books), logAttrDurationMS, durationToMilliseconds(duration))

	return books, nil
}

func (s BookStore) scanBookRow(ctx context.Context, rows adapters.DBRows) (inventory.Book, error) {
	var (
		idText        string
		title         string
		author        string
		category      string
		totalQuantity int
		healthy       int
		damaged       int
		lost          int
		quantity      int
		shelf         string
		publisher     string
		summary       string
		bookNumber    string
		year          int
		pageCount     int
		lastHandledBy string
		loansJSON     []byte
	)

	scanErr := rows.Scan(
		&idText, &title, &author, &category,
		&totalQuantity, &healthy, &damaged, &lost, &quantity,
		&shelf, &publisher, &summary, &bookNumber, &year, &pageCount,
		&lastHandledBy, &loansJSON,
	)
	if scanErr != nil {
		s.logError(ctx, logMsgBookScanFailed, logAttrError, scanErr.Error())
		return inventory.Book{}, errors.Join(storage.ErrScanningRowFailed, scanErr)
	}

	id, parseErr := uuid.Parse(idText)
	if parseErr != nil {
		s.logError(ctx, logMsgBookScanFailed, logAttrError, parseErr.Error())
		return inventory.Book{}, errors.Join(storage.ErrScanningRowFailed, parseErr)
	}

	var records []loanRecord
	if unmarshalErr := jsoniter.ConfigFastest.Unmarshal(loansJSON, &records); unmarshalErr != nil {
		s.logError(ctx, logMsgBookLoansJSONFailed, logAttrError, unmarshalErr.Error())
		return inventory.Book{}, errors.Join(storage.ErrInvalidLoansJSON, unmarshalErr)
	}

	return inventory.RestoreBook(inventory.RestoreBookParams{
		ID:            id,
		Title:         title,
		Author:        author,
		Category:      category,
		TotalQuantity: totalQuantity,
		Conditions:    inventory.ConditionCounts{Healthy: healthy, Damaged: damaged, Lost: lost},
		Quantity:      quantity,
		Loans:         loansFrom(records),
		Shelf:         shelf,
		Publisher:     publisher,
		Summary:       summary,
		BookNumber:    bookNumber,
		Year:          year,
		PageCount:     pageCount,
		LastHandledBy: lastHandledBy,
	}), nil
}

func loanRecordsFrom(loans []inventory.Loan) []loanRecord {
	records := make([]loanRecord, len(loans))
	for i, loan := range loans {
		records[i] = loanRecord{
			Borrower:  loan.Borrower,
			DueDate:   loan.DueDate,
			HandledBy: loan.HandledBy,
		}
	}

	return records
}

func loansFrom(records []loanRecord) []inventory.Loan {
	loans := make([]inventory.Loan, len(records))
	for i, record := range records {
		loans[i] = inventory.Loan{
			Borrower:  record.Borrower,
			DueDate:   record.DueDate,
			HandledBy: record.HandledBy,
		}
	}

	return loans
}
