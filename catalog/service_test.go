package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitaplik/circulation-ledger-go/catalog"
	"github.com/kitaplik/circulation-ledger-go/inventory"
	"github.com/kitaplik/circulation-ledger-go/storage/memorystore"
)

var fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

func givenService(t *testing.T) (*catalog.Service, *memorystore.BookStore) {
	t.Helper()

	store := memorystore.NewBookStore()
	service := catalog.NewService(store, catalog.WithClock(fixedClock))

	return service, store
}

func givenRegisteredBook(t *testing.T, service *catalog.Service, title string, quantity int) inventory.Book {
	t.Helper()

	book, err := service.Register(context.Background(), catalog.RegisterBookRequest{
		Title:    title,
		Author:   "Sabahattin Ali",
		Category: "Roman",
		Quantity: quantity,
	})
	require.NoError(t, err)

	return book
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func Test_Register_PersistsNewBook(t *testing.T) {
	service, store := givenService(t)

	book, err := service.Register(context.Background(), catalog.RegisterBookRequest{
		Title:    "Kürk Mantolu Madonna",
		Author:   "Sabahattin Ali",
		Category: "Roman",
		Quantity: 3,
		Damaged:  intPtr(1),
	})

	require.NoError(t, err)
	assert.Equal(t, inventory.ConditionCounts{Healthy: 2, Damaged: 1}, book.Conditions)
	assert.Equal(t, 3, book.Quantity)

	stored, found, err := store.FindByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, book, stored)
}

func Test_Register_ValidationErrorsPropagate(t *testing.T) {
	service, _ := givenService(t)

	_, err := service.Register(context.Background(), catalog.RegisterBookRequest{
		Title:    " ",
		Author:   "a",
		Category: "c",
		Quantity: 1,
	})

	assert.ErrorIs(t, err, inventory.ErrBlankTitle)
}

func Test_Update_OverridesOnlyProvidedFields(t *testing.T) {
	service, _ := givenService(t)
	book := givenRegisteredBook(t, service, "Tutunamayanlar", 4)

	updated, err := service.Update(context.Background(), book.ID, catalog.UpdateBookRequest{
		Title: "Tehlikeli Oyunlar",
		Shelf: strPtr("B-12"),
		Year:  intPtr(1973),
	})

	require.NoError(t, err)
	assert.Equal(t, "Tehlikeli Oyunlar", updated.Title)
	assert.Equal(t, "Sabahattin Ali", updated.Author)
	assert.Equal(t, "B-12", updated.Shelf)
	assert.Equal(t, 1973, updated.Year)
	assert.Equal(t, 4, updated.TotalQuantity)
}

func Test_Update_TotalFlooredAtActiveLoanCount(t *testing.T) {
	service, _ := givenService(t)
	book := givenRegisteredBook(t, service, "Tutunamayanlar", 3)

	_, err := service.Borrow(context.Background(), catalog.BorrowBookRequest{
		BookID:    book.ID,
		Borrower:  "Ayşe Yılmaz",
		Days:      7,
		HandledBy: "Zeynep Kaya",
	})
	require.NoError(t, err)

	// total shrunk below the single active loan gets floored at 1, and no
	// copy remains available because the only healthy one is lent out
	updated, err := service.Update(context.Background(), book.ID, catalog.UpdateBookRequest{
		TotalQuantity: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, updated.TotalQuantity)
	assert.Equal(t, 1, updated.Conditions.Sum())
	assert.Equal(t, 0, updated.Quantity)
	assert.Len(t, updated.Loans, 1)
}

func Test_Update_RecomputesAvailabilityFromHealthyStock(t *testing.T) {
	service, _ := givenService(t)
	book := givenRegisteredBook(t, service, "Tutunamayanlar", 5)

	updated, err := service.Update(context.Background(), book.ID, catalog.UpdateBookRequest{
		Damaged: intPtr(2),
		Healthy: intPtr(3),
	})

	require.NoError(t, err)
	assert.Equal(t, inventory.ConditionCounts{Healthy: 3, Damaged: 2}, updated.Conditions)
	assert.Equal(t, 3, updated.Quantity)
}

func Test_Update_UnknownBook(t *testing.T) {
	service, _ := givenService(t)

	_, err := service.Update(context.Background(), uuid.New(), catalog.UpdateBookRequest{})

	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}

func Test_Delete_ReturnsPreDeletionState(t *testing.T) {
	service, store := givenService(t)
	book := givenRegisteredBook(t, service, "Tutunamayanlar", 2)

	_, err := service.Borrow(context.Background(), catalog.BorrowBookRequest{
		BookID:    book.ID,
		Borrower:  "Ayşe Yılmaz",
		Days:      7,
		HandledBy: "Zeynep Kaya",
	})
	require.NoError(t, err)

	deleted, err := service.Delete(context.Background(), book.ID)

	require.NoError(t, err)
	// the loan list survives on the returned value for compensation
	assert.Len(t, deleted.Loans, 1)

	_, found, err := store.FindByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func Test_Search_BlankKeywordListsEverything(t *testing.T) {
	service, _ := givenService(t)
	givenRegisteredBook(t, service, "Kürk Mantolu Madonna", 1)
	givenRegisteredBook(t, service, "Tutunamayanlar", 1)

	books, err := service.Search(context.Background(), "  ", "")

	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func Test_Search_FoldedKeywordAndCategoryFilter(t *testing.T) {
	service, _ := givenService(t)
	givenRegisteredBook(t, service, "Kürk Mantolu Madonna", 1)
	givenRegisteredBook(t, service, "Tutunamayanlar", 1)

	books, err := service.Search(context.Background(), "KURK", "roman")

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Kürk Mantolu Madonna", books[0].Title)

	none, err := service.Search(context.Background(), "KURK", "Tarih")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func Test_Borrow_UsesInjectedClockForDueDate(t *testing.T) {
	service, _ := givenService(t)
	book := givenRegisteredBook(t, service, "Tutunamayanlar", 2)

	borrowed, err := service.Borrow(context.Background(), catalog.BorrowBookRequest{
		BookID:    book.ID,
		Borrower:  "Ayşe Yılmaz",
		Days:      14,
		HandledBy: "Zeynep Kaya",
	})

	require.NoError(t, err)
	require.Len(t, borrowed.Loans, 1)
	assert.Equal(t, fixedNow.AddDate(0, 0, 14), borrowed.Loans[0].DueDate)
}

func Test_Borrow_AggregateErrorsPropagateUnchanged(t *testing.T) {
	service, store := givenService(t)
	book := givenRegisteredBook(t, service, "Tutunamayanlar", 1)

	_, err := service.Borrow(context.Background(), catalog.BorrowBookRequest{
		BookID:    book.ID,
		Borrower:  "Ayşe Yılmaz",
		Days:      7,
		HandledBy: "Zeynep Kaya",
	})
	require.NoError(t, err)

	_, err = service.Borrow(context.Background(), catalog.BorrowBookRequest{
		BookID:    book.ID,
		Borrower:  "ayse yilmaz",
		Days:      7,
		HandledBy: "Zeynep Kaya",
	})
	assert.ErrorIs(t, err, inventory.ErrDuplicateLoan)

	// the failed attempt must not have persisted anything
	stored, _, err := store.FindByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Loans, 1)
}

func Test_MarkReturned_PersistsReturnedState(t *testing.T) {
	service, store := givenService(t)
	book := givenRegisteredBook(t, service, "Tutunamayanlar", 2)

	_, err := service.Borrow(context.Background(), catalog.BorrowBookRequest{
		BookID:    book.ID,
		Borrower:  "Ayşe Yılmaz",
		Days:      7,
		HandledBy: "Zeynep Kaya",
	})
	require.NoError(t, err)

	returned, err := service.MarkReturned(context.Background(), book.ID, "Zeynep Kaya", "Ayşe Yılmaz")

	require.NoError(t, err)
	assert.Empty(t, returned.Loans)
	assert.Equal(t, 2, returned.Quantity)

	stored, _, err := store.FindByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Loans)
}

func Test_LoanOverview_FlattensLoansAcrossBooks(t *testing.T) {
	service, _ := givenService(t)
	first := givenRegisteredBook(t, service, "Kürk Mantolu Madonna", 2)
	second := givenRegisteredBook(t, service, "Tutunamayanlar", 2)

	for _, borrow := range []catalog.BorrowBookRequest{
		{BookID: first.ID, Borrower: "Ayşe Yılmaz", Days: 3, HandledBy: "Zeynep Kaya"},
		{BookID: second.ID, Borrower: "Can Demir", Days: 10, HandledBy: "Zeynep Kaya"},
	} {
		_, err := service.Borrow(context.Background(), borrow)
		require.NoError(t, err)
	}

	overview, err := service.LoanOverview(context.Background())

	require.NoError(t, err)
	require.Len(t, overview, 2)
	assert.Equal(t, "Ayşe Yılmaz", overview[0].Borrower)
	assert.Equal(t, 3, overview[0].RemainingDays)
	assert.Equal(t, "Can Demir", overview[1].Borrower)
	assert.Equal(t, 10, overview[1].RemainingDays)
}

func Test_RemoveLoansByBorrower_ReclaimsAcrossBooks(t *testing.T) {
	service, store := givenService(t)
	first := givenRegisteredBook(t, service, "Kürk Mantolu Madonna", 2)
	second := givenRegisteredBook(t, service, "Tutunamayanlar", 2)

	for _, borrow := range []catalog.BorrowBookRequest{
		{BookID: first.ID, Borrower: "Ayşe Yılmaz", Days: 7, HandledBy: "Zeynep Kaya"},
		{BookID: second.ID, Borrower: "Ayşe Yılmaz", Days: 7, HandledBy: "Zeynep Kaya"},
		{BookID: second.ID, Borrower: "Can Demir", Days: 7, HandledBy: "Zeynep Kaya"},
	} {
		_, err := service.Borrow(context.Background(), borrow)
		require.NoError(t, err)
	}

	reclaimed, err := service.RemoveLoansByBorrower(context.Background(), "ayse  yilmaz")

	require.NoError(t, err)
	assert.Equal(t, 2, reclaimed)

	stored, _, err := store.FindByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Can Demir"}, stored.Borrowers())
	assert.Equal(t, 1, stored.Quantity)
}
