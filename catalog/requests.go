package catalog

import "github.com/google/uuid"

// RegisterBookRequest carries the input for Service.Register.
// Condition counts are optional; nil means "unspecified".
type RegisterBookRequest struct {
	Title      string
	Author     string
	Category   string
	Quantity   int
	Healthy    *int
	Damaged    *int
	Lost       *int
	Shelf      string
	Publisher  string
	Summary    string
	BookNumber string
	Year       int
	PageCount  int
}

// UpdateBookRequest carries the input for Service.Update. Blank strings and
// nil counts mean "keep the existing value"; a non-positive TotalQuantity
// falls back to the Book's current total.
type UpdateBookRequest struct {
	Title         string
	Author        string
	Category      string
	TotalQuantity int
	Healthy       *int
	Damaged       *int
	Lost          *int
	Shelf         *string
	Publisher     *string
	Summary       *string
	BookNumber    *string
	Year          *int
	PageCount     *int
}

// BorrowBookRequest carries the input for Service.Borrow.
type BorrowBookRequest struct {
	BookID    uuid.UUID
	Borrower  string
	Days      int
	HandledBy string
}
