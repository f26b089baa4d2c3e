package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kitaplik/circulation-ledger-go/inventory"
)

// ErrBookNotFound is returned when no Book exists for the given identifier.
var ErrBookNotFound = errors.New("book not found")

// BookStore is the persistence collaborator the Service delegates to.
// Implementations must make Save atomic per call; no further transactional
// semantics are required. FindByID signals absence with the boolean rather
// than an error, so store failures stay distinguishable from missing rows.
//
// Search must apply a case- and diacritic-insensitive substring match
// (textfold semantics) over title, author and category.
type BookStore interface {
	Save(ctx context.Context, book inventory.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (inventory.Book, bool, error)
	FindAll(ctx context.Context) ([]inventory.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, keyword string) ([]inventory.Book, error)
}
