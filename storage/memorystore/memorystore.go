// Package memorystore provides in-memory implementations of the book-store
// and statistics-store contracts, with per-call atomicity and
// whole-document reads. They back the unit tests; safe for concurrent use
// but without durability.
package memorystore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kitaplik/circulation-ledger-go/inventory"
	"github.com/kitaplik/circulation-ledger-go/statistics"
	"github.com/kitaplik/circulation-ledger-go/textfold"
)

// BookStore keeps books in a map guarded by a mutex. Save and Delete are
// atomic per call; reads return copies so callers never alias stored state.
type BookStore struct {
	mu    sync.RWMutex
	books map[uuid.UUID]inventory.Book
}

// NewBookStore creates an empty in-memory book store.
func NewBookStore() *BookStore {
	return &BookStore{
		books: make(map[uuid.UUID]inventory.Book),
	}
}

// Save inserts or replaces the book.
func (s *BookStore) Save(_ context.Context, book inventory.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books[book.ID] = snapshotOf(book)

	return nil
}

// FindByID returns the book and whether it exists.
func (s *BookStore) FindByID(_ context.Context, id uuid.UUID) (inventory.Book, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[id]
	if !ok {
		return inventory.Book{}, false, nil
	}

	return snapshotOf(book), true, nil
}

// FindAll returns every stored book, ordered by title for determinism.
func (s *BookStore) FindAll(_ context.Context) ([]inventory.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]inventory.Book, 0, len(s.books))
	for _, book := range s.books {
		books = append(books, snapshotOf(book))
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].Title < books[j].Title
	})

	return books, nil
}

// Delete removes the book. Deleting an absent book is a no-op.
func (s *BookStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.books, id)

	return nil
}

// Search returns books whose title, author or category contains the
// keyword after case and diacritic folding, ordered by title.
func (s *BookStore) Search(_ context.Context, keyword string) ([]inventory.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]inventory.Book, 0)

	for _, book := range s.books {
		if textfold.Contains(book.Title, keyword) ||
			textfold.Contains(book.Author, keyword) ||
			textfold.Contains(book.Category, keyword) {
			books = append(books, snapshotOf(book))
		}
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].Title < books[j].Title
	})

	return books, nil
}

// snapshotOf detaches the loan slice so stored state and returned values
// never share backing arrays.
func snapshotOf(book inventory.Book) inventory.Book {
	loans := make([]inventory.Loan, len(book.Loans))
	copy(loans, book.Loans)
	book.Loans = loans

	return book
}

// StatisticsStore keeps the statistics document in memory. Read returns an
// empty document until the first Save; every Read and Save deep-copies the
// document so read-modify-write cycles never alias stored state.
type StatisticsStore struct {
	mu        sync.RWMutex
	doc       statistics.Document
	persisted bool
}

// NewStatisticsStore creates an empty in-memory statistics store.
func NewStatisticsStore() *StatisticsStore {
	return &StatisticsStore{}
}

// Read returns the whole document, or an empty one if none was saved yet.
func (s *StatisticsStore) Read(_ context.Context) (statistics.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.persisted {
		return statistics.NewDocument(), nil
	}

	return s.doc.Clone(), nil
}

// Save replaces the document atomically.
func (s *StatisticsStore) Save(_ context.Context, doc statistics.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = doc.Clone()
	s.persisted = true

	return nil
}
