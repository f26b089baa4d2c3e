package inventory

import (
	"time"

	"github.com/kitaplik/circulation-ledger-go/textfold"
)

// Loan is an active borrowing record embedded in a Book. It has no
// lifecycle of its own: Book.Borrow creates it, Book.ReturnLoan removes it.
type Loan struct {
	Borrower  string
	DueDate   time.Time
	HandledBy string
}

// IsFor reports whether this loan belongs to the given borrower,
// matched case- and diacritic-insensitively.
func (l Loan) IsFor(borrower string) bool {
	return textfold.Equal(l.Borrower, borrower)
}

// RemainingDays returns the number of whole days until the due date,
// floored at zero once the loan is overdue.
func (l Loan) RemainingDays(now time.Time) int {
	remaining := l.DueDate.Sub(now)
	if remaining <= 0 {
		return 0
	}

	return int(remaining.Hours() / 24)
}

// IsOverdue reports whether the due date has already passed.
func (l Loan) IsOverdue(now time.Time) bool {
	return l.DueDate.Before(now)
}
