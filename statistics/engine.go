package statistics

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/kitaplik/circulation-ledger-go/inventory"
	"github.com/kitaplik/circulation-ledger-go/storage"
	"github.com/kitaplik/circulation-ledger-go/textfold"
)

var (
	// ErrReadingDocumentFailed is returned when the statistics store cannot deliver the document.
	ErrReadingDocumentFailed = errors.New("reading statistics document failed")

	// ErrSavingDocumentFailed is returned when writing the statistics document back fails.
	ErrSavingDocumentFailed = errors.New("saving statistics document failed")
)

const (
	logMsgBorrowRecorded   = "borrow recorded"
	logMsgReturnRecorded   = "return recorded"
	logMsgBookCompensated  = "book deletion compensated"
	logMsgStudentRekeyed   = "student entry re-keyed"
	logAttrBookID          = "book_id"
	logAttrStudentKey      = "student_key"
	logAttrPreviousKey     = "previous_key"
	logAttrCompensatedLoan = "compensated_loans"
)

// Store is the persistence collaborator for the statistics document.
// Read returns the whole document, or an empty one when nothing has been
// persisted yet. Save replaces the document and is expected to be
// transactional: a save either lands completely or not at all.
type Store interface {
	Read(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
}

// Engine maintains the statistics document via full read-modify-write
// cycles. It must be invoked for every borrow, return and
// book-deletion-with-active-loans to stay consistent with the inventory,
// and it is not safe for concurrent callers without an external lock.
type Engine struct {
	store  Store
	now    func() time.Time
	logger storage.ContextualLogger
}

// Option defines a functional option for configuring an Engine.
type Option func(*Engine)

// WithClock sets the time source used to judge overdue loans during
// deletion compensation. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithContextualLogger sets the logger for recorded events and re-keying.
func WithContextualLogger(logger storage.ContextualLogger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine with optional configuration.
func NewEngine(store Store, opts ...Option) *Engine {
	engine := &Engine{
		store: store,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// RecordBorrow increments the borrow counters for the book and the named
// student. A blank student name skips the student side only; the book
// counters still update.
func (e *Engine) RecordBorrow(ctx context.Context, book inventory.Book, studentName string) error {
	doc, err := e.read(ctx)
	if err != nil {
		return err
	}

	counters := e.upsertBookCounters(doc, book)
	counters.Borrowed++
	doc.Books[book.ID.String()] = counters

	if name := strings.TrimSpace(studentName); name != "" {
		first, surname := SplitName(name)
		key := textfold.Key(name)

		entry, ok := doc.Students[key]
		if !ok {
			entry = StudentCounters{Name: first, Surname: surname}
		}

		entry.Borrowed++
		doc.Students[key] = entry
	}

	if err := e.save(ctx, doc); err != nil {
		return err
	}

	e.logInfo(ctx, logMsgBorrowRecorded, logAttrBookID, book.ID.String())

	return nil
}

// RecordReturn increments the return counters (and lateness counters when
// isLate is set) for the book and the student. The student is located via
// the three-tier ResolveStudent fallback; when the entry is found under a
// stale key it is re-keyed to the canonical one, counters preserved.
func (e *Engine) RecordReturn(ctx context.Context, book inventory.Book, studentName string, isLate bool) error {
	doc, err := e.read(ctx)
	if err != nil {
		return err
	}

	counters := e.upsertBookCounters(doc, book)
	counters.Returned++
	if isLate {
		counters.Late++
	}
	doc.Books[book.ID.String()] = counters

	if name := strings.TrimSpace(studentName); name != "" {
		resolution := ResolveStudent(doc.Students, name)
		e.applyRekey(ctx, doc, resolution)

		entry := resolution.Entry
		entry.Returned++
		if isLate {
			entry.Late++
		}
		doc.Students[resolution.Key] = entry
	}

	if err := e.save(ctx, doc); err != nil {
		return err
	}

	e.logInfo(ctx, logMsgReturnRecorded, logAttrBookID, book.ID.String())

	return nil
}

// RemoveBookLoans is the compensation path for deleting a Book that still
// has active loans. For every active loan the student's borrow counter is
// decremented (floored at zero); a loan already past its due date also
// decrements the lateness counter, treating an unresolved overdue loan as
// late. Finally the book's own entry is removed. This is the only place
// counters move backward under normal operation.
func (e *Engine) RemoveBookLoans(ctx context.Context, deleted inventory.Book) error {
	doc, err := e.read(ctx)
	if err != nil {
		return err
	}

	now := e.now()

	for _, loan := range deleted.Loans {
		name := strings.TrimSpace(loan.Borrower)
		if name == "" {
			continue
		}

		resolution := ResolveStudent(doc.Students, name)
		e.applyRekey(ctx, doc, resolution)

		entry := resolution.Entry
		if entry.Borrowed > 0 {
			entry.Borrowed--
		}

		if loan.IsOverdue(now) && entry.Late > 0 {
			entry.Late--
		}

		doc.Students[resolution.Key] = entry
	}

	delete(doc.Books, deleted.ID.String())

	if err := e.save(ctx, doc); err != nil {
		return err
	}

	e.logInfo(ctx, logMsgBookCompensated,
		logAttrBookID, deleted.ID.String(),
		logAttrCompensatedLoan, len(deleted.Loans))

	return nil
}

// BookStat is one row of the per-book report.
type BookStat struct {
	BookID string
	BookCounters
}

// StudentStat is one row of the per-person report.
type StudentStat struct {
	Key string
	StudentCounters
}

// BookStats projects the book counters to a list sorted by borrow count,
// highest first, with the title as a deterministic tie-break.
func (e *Engine) BookStats(ctx context.Context) ([]BookStat, error) {
	doc, err := e.read(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]BookStat, 0, len(doc.Books))
	for id, counters := range doc.Books {
		stats = append(stats, BookStat{BookID: id, BookCounters: counters})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Borrowed != stats[j].Borrowed {
			return stats[i].Borrowed > stats[j].Borrowed
		}

		return stats[i].Title < stats[j].Title
	})

	return stats, nil
}

// StudentStats projects the person counters to a list sorted by borrow
// count, highest first, with the key as a deterministic tie-break.
func (e *Engine) StudentStats(ctx context.Context) ([]StudentStat, error) {
	doc, err := e.read(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]StudentStat, 0, len(doc.Students))
	for key, counters := range doc.Students {
		stats = append(stats, StudentStat{Key: key, StudentCounters: counters})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Borrowed != stats[j].Borrowed {
			return stats[i].Borrowed > stats[j].Borrowed
		}

		return stats[i].Key < stats[j].Key
	})

	return stats, nil
}

// upsertBookCounters returns the counters for the book, seeding a fresh
// entry from the Book when absent and refreshing the descriptive mirror
// fields when present.
func (e *Engine) upsertBookCounters(doc Document, book inventory.Book) BookCounters {
	counters, ok := doc.Books[book.ID.String()]
	if !ok {
		return BookCounters{
			Title:    book.Title,
			Author:   book.Author,
			Category: book.Category,
			Quantity: book.Quantity,
		}
	}

	counters.Title = book.Title
	counters.Author = book.Author
	counters.Category = book.Category
	counters.Quantity = book.Quantity

	return counters
}

func (e *Engine) applyRekey(ctx context.Context, doc Document, resolution Resolution) {
	if resolution.Previous == "" {
		return
	}

	delete(doc.Students, resolution.Previous)

	e.logInfo(ctx, logMsgStudentRekeyed,
		logAttrStudentKey, resolution.Key,
		logAttrPreviousKey, resolution.Previous)
}

func (e *Engine) read(ctx context.Context) (Document, error) {
	doc, err := e.store.Read(ctx)
	if err != nil {
		return Document{}, errors.Join(ErrReadingDocumentFailed, err)
	}

	if doc.Books == nil {
		doc.Books = make(map[string]BookCounters)
	}

	if doc.Students == nil {
		doc.Students = make(map[string]StudentCounters)
	}

	return doc, nil
}

func (e *Engine) save(ctx context.Context, doc Document) error {
	if err := e.store.Save(ctx, doc); err != nil {
		return errors.Join(ErrSavingDocumentFailed, err)
	}

	return nil
}

func (e *Engine) logInfo(ctx context.Context, msg string, args ...any) {
	if e.logger != nil {
		e.logger.InfoContext(ctx, msg, args...)
	}
}
