package memorystore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitaplik/circulation-ledger-go/inventory"
	"github.com/kitaplik/circulation-ledger-go/statistics"
)

func givenStoredBook(t *testing.T, store *BookStore, title, author string) inventory.Book {
	t.Helper()

	book := inventory.RestoreBook(inventory.RestoreBookParams{
		ID:            uuid.New(),
		Title:         title,
		Author:        author,
		Category:      "Roman",
		TotalQuantity: 2,
		Conditions:    inventory.ConditionCounts{Healthy: 2},
		Quantity:      2,
	})
	require.NoError(t, store.Save(context.Background(), book))

	return book
}

func Test_BookStore_SaveAndFindByID(t *testing.T) {
	store := NewBookStore()
	book := givenStoredBook(t, store, "Tutunamayanlar", "Oğuz Atay")

	found, ok, err := store.FindByID(context.Background(), book.ID)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, book, found)
}

func Test_BookStore_FindByID_Absent(t *testing.T) {
	store := NewBookStore()

	_, ok, err := store.FindByID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_BookStore_SaveReplacesExisting(t *testing.T) {
	store := NewBookStore()
	book := givenStoredBook(t, store, "Tutunamayanlar", "Oğuz Atay")

	book.Quantity = 1
	require.NoError(t, store.Save(context.Background(), book))

	found, _, err := store.FindByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.Quantity)
}

func Test_BookStore_FindAll_OrderedByTitle(t *testing.T) {
	store := NewBookStore()
	givenStoredBook(t, store, "Tutunamayanlar", "Oğuz Atay")
	givenStoredBook(t, store, "Aylak Adam", "Yusuf Atılgan")

	books, err := store.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Aylak Adam", books[0].Title)
	assert.Equal(t, "Tutunamayanlar", books[1].Title)
}

func Test_BookStore_Search_FoldsAcrossTitleAuthorCategory(t *testing.T) {
	store := NewBookStore()
	givenStoredBook(t, store, "Kürk Mantolu Madonna", "Sabahattin Ali")
	givenStoredBook(t, store, "Aylak Adam", "Yusuf Atılgan")

	byTitle, err := store.Search(context.Background(), "KURK")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Kürk Mantolu Madonna", byTitle[0].Title)

	byAuthor, err := store.Search(context.Background(), "atilgan")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Aylak Adam", byAuthor[0].Title)

	byCategory, err := store.Search(context.Background(), "roman")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)
}

func Test_BookStore_Delete_AbsentIsNoOp(t *testing.T) {
	store := NewBookStore()
	book := givenStoredBook(t, store, "Tutunamayanlar", "Oğuz Atay")

	require.NoError(t, store.Delete(context.Background(), book.ID))
	require.NoError(t, store.Delete(context.Background(), book.ID))

	_, ok, err := store.FindByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_BookStore_ReturnedBooksDoNotAliasStoredState(t *testing.T) {
	store := NewBookStore()
	book := inventory.RestoreBook(inventory.RestoreBookParams{
		ID:            uuid.New(),
		Title:         "Tutunamayanlar",
		Author:        "Oğuz Atay",
		Category:      "Roman",
		TotalQuantity: 2,
		Conditions:    inventory.ConditionCounts{Healthy: 1},
		Quantity:      1,
		Loans: []inventory.Loan{
			{Borrower: "Ayşe Yılmaz", DueDate: time.Now().AddDate(0, 0, 7)},
		},
	})
	require.NoError(t, store.Save(context.Background(), book))

	found, _, err := store.FindByID(context.Background(), book.ID)
	require.NoError(t, err)

	// mutating the returned loan slice must not leak into the store
	found.Loans[0].Borrower = "tampered"

	again, _, err := store.FindByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", again.Loans[0].Borrower)
}

func Test_StatisticsStore_ReadBeforeFirstSaveReturnsEmptyDocument(t *testing.T) {
	store := NewStatisticsStore()

	doc, err := store.Read(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, doc.Books)
	assert.NotNil(t, doc.Students)
	assert.Empty(t, doc.Books)
	assert.Empty(t, doc.Students)
}

func Test_StatisticsStore_SaveThenReadRoundTrips(t *testing.T) {
	store := NewStatisticsStore()

	doc := statistics.NewDocument()
	doc.Books["b1"] = statistics.BookCounters{Title: "Tutunamayanlar", Borrowed: 2}
	doc.Students["ayse yilmaz"] = statistics.StudentCounters{Name: "Ayşe", Surname: "Yılmaz", Borrowed: 2}

	require.NoError(t, store.Save(context.Background(), doc))

	read, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, read)
}

func Test_StatisticsStore_ReadModifyWriteDoesNotAliasStoredState(t *testing.T) {
	store := NewStatisticsStore()

	doc := statistics.NewDocument()
	doc.Books["b1"] = statistics.BookCounters{Borrowed: 1}
	require.NoError(t, store.Save(context.Background(), doc))

	// mutate both the saved document and a fresh read; neither may leak
	doc.Books["b1"] = statistics.BookCounters{Borrowed: 99}

	read, err := store.Read(context.Background())
	require.NoError(t, err)
	read.Books["b2"] = statistics.BookCounters{}

	again, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, again.Books["b1"].Borrowed)
	assert.NotContains(t, again.Books, "b2")
}
