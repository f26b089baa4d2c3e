// Package catalog orchestrates aggregate creation, mutation and search for
// the circulation ledger. Every operation is a load -> pure mutation ->
// save sequence against an injected BookStore; the package assumes the
// caller guarantees at most one in-flight mutation per Book identifier
// (no optimistic-concurrency token is carried on the aggregate).
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kitaplik/circulation-ledger-go/inventory"
	"github.com/kitaplik/circulation-ledger-go/storage"
	"github.com/kitaplik/circulation-ledger-go/textfold"
)

const (
	logMsgBookRegistered     = "book registered"
	logMsgBookUpdated        = "book updated"
	logMsgBookDeleted        = "book deleted"
	logMsgCopyBorrowed       = "copy borrowed"
	logMsgCopyReturned       = "copy returned"
	logMsgLoansReclaimed     = "loans reclaimed for borrower"
	logAttrBookID            = "book_id"
	logAttrBorrower          = "borrower"
	logAttrReclaimed         = "reclaimed_copies"
	logAttrTotalQuantity     = "total_quantity"
	logAttrAvailableQuantity = "available_quantity"
)

// LoanSummary is one row of the flattened loan overview.
type LoanSummary struct {
	BookID        uuid.UUID
	Title         string
	Author        string
	Category      string
	Borrower      string
	DueDate       time.Time
	RemainingDays int
	HandledBy     string
}

// Service coordinates Book lifecycle operations, delegating persistence to
// the injected BookStore. It holds no state of its own beyond wiring.
type Service struct {
	store  BookStore
	now    func() time.Time
	logger storage.ContextualLogger
}

// Option defines a functional option for configuring a Service.
type Option func(*Service)

// WithClock sets the time source used for due dates and remaining-days
// computation. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithContextualLogger sets the logger for operation outcomes.
func WithContextualLogger(logger storage.ContextualLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service with optional configuration.
func NewService(store BookStore, opts ...Option) *Service {
	service := &Service{
		store: store,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Register builds a new Book from the request and persists it.
func (s *Service) Register(ctx context.Context, req RegisterBookRequest) (inventory.Book, error) {
	book, err := inventory.NewBook(inventory.NewBookParams{
		Title:         req.Title,
		Author:        req.Author,
		Category:      req.Category,
		TotalQuantity: req.Quantity,
		Healthy:       req.Healthy,
		Damaged:       req.Damaged,
		Lost:          req.Lost,
		Shelf:         req.Shelf,
		Publisher:     req.Publisher,
		Summary:       req.Summary,
		BookNumber:    req.BookNumber,
		Year:          req.Year,
		PageCount:     req.PageCount,
	})
	if err != nil {
		return inventory.Book{}, err
	}

	if err := s.store.Save(ctx, book); err != nil {
		return inventory.Book{}, err
	}

	s.logInfo(ctx, logMsgBookRegistered, logAttrBookID, book.ID.String(), logAttrTotalQuantity, book.TotalQuantity)

	return book, nil
}

// Update recomputes a Book's capacity and condition counts and persists
// the rebuilt aggregate.
//
// The new total is floored at the current active-loan count so an update
// can never shrink capacity below copies already lent out, and available
// stock is recalculated fresh as healthy stock minus what is currently out
// rather than adjusted incrementally.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateBookRequest) (inventory.Book, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return inventory.Book{}, err
	}

	newTotal := req.TotalQuantity
	if newTotal <= 0 {
		newTotal = existing.TotalQuantity
	}

	loanCount := existing.ActiveLoanCount()
	if newTotal < loanCount {
		newTotal = loanCount
	}

	counts := inventory.NormalizeConditions(
		newTotal,
		seedCount(req.Healthy, existing.Conditions.Healthy),
		seedCount(req.Damaged, existing.Conditions.Damaged),
		seedCount(req.Lost, existing.Conditions.Lost),
	)

	quantity := counts.Healthy - loanCount
	if quantity < 0 {
		quantity = 0
	}

	rebuilt := inventory.RestoreBook(inventory.RestoreBookParams{
		ID:            existing.ID,
		Title:         overrideString(req.Title, existing.Title),
		Author:        overrideString(req.Author, existing.Author),
		Category:      overrideString(req.Category, existing.Category),
		TotalQuantity: newTotal,
		Conditions:    counts,
		Quantity:      quantity,
		Loans:         existing.Loans,
		Shelf:         overrideOptional(req.Shelf, existing.Shelf),
		Publisher:     overrideOptional(req.Publisher, existing.Publisher),
		Summary:       overrideOptional(req.Summary, existing.Summary),
		BookNumber:    overrideOptional(req.BookNumber, existing.BookNumber),
		Year:          overrideOptionalInt(req.Year, existing.Year),
		PageCount:     overrideOptionalInt(req.PageCount, existing.PageCount),
		LastHandledBy: existing.LastHandledBy,
	})

	if err := s.store.Save(ctx, rebuilt); err != nil {
		return inventory.Book{}, err
	}

	s.logInfo(ctx, logMsgBookUpdated,
		logAttrBookID, rebuilt.ID.String(),
		logAttrTotalQuantity, rebuilt.TotalQuantity,
		logAttrAvailableQuantity, rebuilt.Quantity)

	return rebuilt, nil
}

// Delete removes the Book from the store and returns its pre-deletion
// state, loans included. Deleting does not touch statistics itself: the
// caller must feed the returned Book into the statistics engine's
// compensation operation, since the loan list is lost once deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (inventory.Book, error) {
	book, err := s.load(ctx, id)
	if err != nil {
		return inventory.Book{}, err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return inventory.Book{}, err
	}

	s.logInfo(ctx, logMsgBookDeleted, logAttrBookID, id.String())

	return book, nil
}

// Search lists books matching the keyword, optionally narrowed to an exact
// (case-insensitive) category. A blank keyword lists everything.
func (s *Service) Search(ctx context.Context, keyword, category string) ([]inventory.Book, error) {
	var (
		books []inventory.Book
		err   error
	)

	if strings.TrimSpace(keyword) == "" {
		books, err = s.store.FindAll(ctx)
	} else {
		books, err = s.store.Search(ctx, keyword)
	}

	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(category) == "" {
		return books, nil
	}

	filtered := make([]inventory.Book, 0, len(books))
	for _, book := range books {
		if strings.EqualFold(strings.TrimSpace(book.Category), strings.TrimSpace(category)) {
			filtered = append(filtered, book)
		}
	}

	return filtered, nil
}

// Borrow loads the Book, applies the pure borrow operation and persists
// the result. Aggregate errors propagate unchanged.
func (s *Service) Borrow(ctx context.Context, req BorrowBookRequest) (inventory.Book, error) {
	book, err := s.load(ctx, req.BookID)
	if err != nil {
		return inventory.Book{}, err
	}

	borrowed, err := book.Borrow(req.Borrower, req.Days, req.HandledBy, s.now())
	if err != nil {
		return inventory.Book{}, err
	}

	if err := s.store.Save(ctx, borrowed); err != nil {
		return inventory.Book{}, err
	}

	s.logInfo(ctx, logMsgCopyBorrowed, logAttrBookID, borrowed.ID.String(), logAttrBorrower, req.Borrower)

	return borrowed, nil
}

// MarkReturned loads the Book, applies the pure return operation and
// persists the result. An empty borrower is only valid while exactly one
// loan is active. Aggregate errors propagate unchanged.
func (s *Service) MarkReturned(ctx context.Context, bookID uuid.UUID, handledBy, borrower string) (inventory.Book, error) {
	book, err := s.load(ctx, bookID)
	if err != nil {
		return inventory.Book{}, err
	}

	returned, err := book.ReturnLoan(handledBy, borrower)
	if err != nil {
		return inventory.Book{}, err
	}

	if err := s.store.Save(ctx, returned); err != nil {
		return inventory.Book{}, err
	}

	s.logInfo(ctx, logMsgCopyReturned, logAttrBookID, returned.ID.String(), logAttrBorrower, borrower)

	return returned, nil
}

// LoanOverview flattens all active loans across the catalog into report
// rows, computing remaining days per loan against the injected clock.
func (s *Service) LoanOverview(ctx context.Context) ([]LoanSummary, error) {
	books, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	overview := make([]LoanSummary, 0)

	for _, book := range books {
		for _, loan := range book.Loans {
			overview = append(overview, LoanSummary{
				BookID:        book.ID,
				Title:         book.Title,
				Author:        book.Author,
				Category:      book.Category,
				Borrower:      loan.Borrower,
				DueDate:       loan.DueDate,
				RemainingDays: loan.RemainingDays(now),
				HandledBy:     loan.HandledBy,
			})
		}
	}

	return overview, nil
}

// RemoveLoansByBorrower drops every active loan held by the named borrower
// across all books, restores the reclaimed copies to availability (capped
// at each Book's total) and persists the affected books. It returns the
// total number of copies reclaimed. Used when a borrower record is deleted
// elsewhere, to avoid orphaned loans.
func (s *Service) RemoveLoansByBorrower(ctx context.Context, name string) (int, error) {
	books, err := s.store.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	reclaimed := 0

	for _, book := range books {
		kept := make([]inventory.Loan, 0, len(book.Loans))
		removed := 0

		for _, loan := range book.Loans {
			if textfold.Equal(loan.Borrower, name) {
				removed++
				continue
			}

			kept = append(kept, loan)
		}

		if removed == 0 {
			continue
		}

		quantity := book.Quantity + removed
		if quantity > book.TotalQuantity {
			quantity = book.TotalQuantity
		}

		updated := inventory.RestoreBook(inventory.RestoreBookParams{
			ID:            book.ID,
			Title:         book.Title,
			Author:        book.Author,
			Category:      book.Category,
			TotalQuantity: book.TotalQuantity,
			Conditions:    book.Conditions,
			Quantity:      quantity,
			Loans:         kept,
			Shelf:         book.Shelf,
			Publisher:     book.Publisher,
			Summary:       book.Summary,
			BookNumber:    book.BookNumber,
			Year:          book.Year,
			PageCount:     book.PageCount,
			LastHandledBy: book.LastHandledBy,
		})

		if err := s.store.Save(ctx, updated); err != nil {
			return reclaimed, err
		}

		reclaimed += removed
	}

	s.logInfo(ctx, logMsgLoansReclaimed, logAttrBorrower, name, logAttrReclaimed, reclaimed)

	return reclaimed, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (inventory.Book, error) {
	book, found, err := s.store.FindByID(ctx, id)
	if err != nil {
		return inventory.Book{}, err
	}

	if !found {
		return inventory.Book{}, errors.Join(ErrBookNotFound, errors.New(id.String()))
	}

	return book, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func seedCount(override *int, existing int) *int {
	if override != nil {
		return override
	}

	return &existing
}

func overrideString(override, existing string) string {
	if strings.TrimSpace(override) == "" {
		return existing
	}

	return strings.TrimSpace(override)
}

func overrideOptional(override *string, existing string) string {
	if override == nil {
		return existing
	}

	return *override
}

func overrideOptionalInt(override *int, existing int) int {
	if override == nil {
		return existing
	}

	return *override
}
