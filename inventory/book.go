package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Book is the aggregate root for one catalog title. It is an immutable
// value: every mutating operation returns a new Book and leaves the
// receiver untouched, so invariant checking stays centralized in the
// constructors and the normalization algorithm.
//
// Invariants held after every operation:
//   - Conditions.Healthy + Conditions.Damaged + Conditions.Lost == TotalQuantity
//   - 0 <= Quantity <= TotalQuantity
//   - len(Loans) <= TotalQuantity
//   - at most one active loan per distinct borrower (folded match)
type Book struct {
	ID            uuid.UUID
	Title         string
	Author        string
	Category      string
	TotalQuantity int
	Conditions    ConditionCounts
	Quantity      int
	Loans         []Loan

	// Descriptive attributes, carried through unchanged by domain
	// operations and never part of an invariant.
	Shelf      string
	Publisher  string
	Summary    string
	BookNumber string
	Year       int
	PageCount  int

	// LastHandledBy names the staff member who performed the most recent
	// borrow or return. Audit trail only, overwritten each operation.
	LastHandledBy string
}

// NewBookParams carries the input for NewBook. The condition counts are
// optional; nil means "unspecified" and is resolved by normalization.
type NewBookParams struct {
	Title         string
	Author        string
	Category      string
	TotalQuantity int
	Healthy       *int
	Damaged       *int
	Lost          *int
	Shelf         string
	Publisher     string
	Summary       string
	BookNumber    string
	Year          int
	PageCount     int
}

// RestoreBookParams carries previously persisted state for RestoreBook.
type RestoreBookParams struct {
	ID            uuid.UUID
	Title         string
	Author        string
	Category      string
	TotalQuantity int
	Conditions    ConditionCounts
	Quantity      int
	Loans         []Loan
	Shelf         string
	Publisher     string
	Summary       string
	BookNumber    string
	Year          int
	PageCount     int
	LastHandledBy string
}

// NewBook creates a Book with a fresh identity. It rejects blank
// title/author/category and non-positive totals, normalizes the optional
// condition counts and puts every copy up for lending.
func NewBook(params NewBookParams) (Book, error) {
	if err := validateNewBookParams(params); err != nil {
		return Book{}, err
	}

	book := Book{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(params.Title),
		Author:        strings.TrimSpace(params.Author),
		Category:      strings.TrimSpace(params.Category),
		TotalQuantity: params.TotalQuantity,
		Conditions:    NormalizeConditions(params.TotalQuantity, params.Healthy, params.Damaged, params.Lost),
		Quantity:      params.TotalQuantity,
		Shelf:         params.Shelf,
		Publisher:     params.Publisher,
		Summary:       params.Summary,
		BookNumber:    params.BookNumber,
		Year:          params.Year,
		PageCount:     params.PageCount,
	}

	return book, nil
}

func validateNewBookParams(params NewBookParams) error {
	switch {
	case strings.TrimSpace(params.Title) == "":
		return ErrBlankTitle
	case strings.TrimSpace(params.Author) == "":
		return ErrBlankAuthor
	case strings.TrimSpace(params.Category) == "":
		return ErrBlankCategory
	case params.TotalQuantity <= 0:
		return ErrNonPositiveTotal
	}

	return nil
}

// RestoreBook rehydrates a Book from storage. Inputs are trusted: storage
// is assumed already consistent and quantities are not re-validated.
// Callers performing repair must re-normalize explicitly.
func RestoreBook(params RestoreBookParams) Book {
	loans := make([]Loan, len(params.Loans))
	copy(loans, params.Loans)

	return Book{
		ID:            params.ID,
		Title:         params.Title,
		Author:        params.Author,
		Category:      params.Category,
		TotalQuantity: params.TotalQuantity,
		Conditions:    params.Conditions,
		Quantity:      params.Quantity,
		Loans:         loans,
		Shelf:         params.Shelf,
		Publisher:     params.Publisher,
		Summary:       params.Summary,
		BookNumber:    params.BookNumber,
		Year:          params.Year,
		PageCount:     params.PageCount,
		LastHandledBy: params.LastHandledBy,
	}
}

// Borrow lends one healthy copy to the borrower until now + days.
// It fails with ErrDuplicateLoan when the borrower already holds a copy of
// this title, with ErrNoStock when no healthy copy is left, and with a
// validation sentinel for blank names or non-positive days.
func (b Book) Borrow(borrower string, days int, handledBy string, now time.Time) (Book, error) {
	borrower = strings.TrimSpace(borrower)
	handledBy = strings.TrimSpace(handledBy)

	switch {
	case borrower == "":
		return Book{}, ErrBlankBorrower
	case handledBy == "":
		return Book{}, ErrBlankHandledBy
	case days <= 0:
		return Book{}, ErrNonPositiveDays
	}

	if b.HasBorrower(borrower) {
		return Book{}, ErrDuplicateLoan
	}

	if b.Conditions.Healthy <= 0 {
		return Book{}, ErrNoStock
	}

	next := b.withLoans(append(b.copyOfLoans(), Loan{
		Borrower:  borrower,
		DueDate:   now.AddDate(0, 0, days),
		HandledBy: handledBy,
	}))

	next.Quantity = floorAtZero(next.Quantity - 1)
	next.Conditions.Healthy = floorAtZero(next.Conditions.Healthy - 1)
	next.LastHandledBy = handledBy

	return next, nil
}

// ReturnLoan removes an active loan and puts the copy back into the
// available pool. An empty borrower is allowed only while exactly one loan
// is active; otherwise the return is ambiguous.
//
// Quantity is restored (capped at TotalQuantity) but Conditions.Healthy is
// deliberately not: the physical condition of a returned copy is unknown
// until an explicit update re-normalizes the counts. This asymmetry with
// Borrow is preserved for compatibility with the established behavior.
func (b Book) ReturnLoan(handledBy string, borrower string) (Book, error) {
	handledBy = strings.TrimSpace(handledBy)
	borrower = strings.TrimSpace(borrower)

	if handledBy == "" {
		return Book{}, ErrBlankHandledBy
	}

	if len(b.Loans) == 0 {
		return Book{}, ErrNoActiveLoan
	}

	index := 0

	if borrower == "" {
		if len(b.Loans) > 1 {
			return Book{}, ErrAmbiguousReturn
		}
	} else {
		index = b.loanIndexFor(borrower)
		if index < 0 {
			return Book{}, ErrBorrowerNotFound
		}
	}

	remaining := b.copyOfLoans()
	remaining = append(remaining[:index], remaining[index+1:]...)

	next := b.withLoans(remaining)
	next.Quantity = capAt(next.Quantity+1, next.TotalQuantity)
	next.LastHandledBy = handledBy

	return next, nil
}

// HasBorrower reports whether the borrower currently holds a copy,
// matched case- and diacritic-insensitively.
func (b Book) HasBorrower(borrower string) bool {
	return b.loanIndexFor(borrower) >= 0
}

// LoanFor returns the active loan held by the borrower, if any.
func (b Book) LoanFor(borrower string) (Loan, bool) {
	index := b.loanIndexFor(borrower)
	if index < 0 {
		return Loan{}, false
	}

	return b.Loans[index], true
}

// Borrowers lists the display names of all current borrowers in loan order.
func (b Book) Borrowers() []string {
	names := make([]string, len(b.Loans))
	for i, loan := range b.Loans {
		names[i] = loan.Borrower
	}

	return names
}

// ActiveLoanCount returns the number of active loans.
func (b Book) ActiveLoanCount() int {
	return len(b.Loans)
}

// RemainingDays returns the whole days until the soonest due date among
// active loans, floored at zero. The second return value is false when
// no loan is active.
func (b Book) RemainingDays(now time.Time) (int, bool) {
	if len(b.Loans) == 0 {
		return 0, false
	}

	soonest := b.Loans[0].DueDate
	for _, loan := range b.Loans[1:] {
		if loan.DueDate.Before(soonest) {
			soonest = loan.DueDate
		}
	}

	return Loan{DueDate: soonest}.RemainingDays(now), true
}

func (b Book) loanIndexFor(borrower string) int {
	for i, loan := range b.Loans {
		if loan.IsFor(borrower) {
			return i
		}
	}

	return -1
}

func (b Book) copyOfLoans() []Loan {
	loans := make([]Loan, len(b.Loans))
	copy(loans, b.Loans)

	return loans
}

func (b Book) withLoans(loans []Loan) Book {
	b.Loans = loans
	return b
}

func floorAtZero(v int) int {
	if v < 0 {
		return 0
	}

	return v
}

func capAt(v, high int) int {
	if v > high {
		return high
	}

	return v
}
