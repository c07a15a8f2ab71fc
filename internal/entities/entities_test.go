package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidField(t *testing.T) {
	t.Run("accepts normal values", func(t *testing.T) {
		assert.True(t, ValidField("Alice"))
		assert.True(t, ValidField(strings.Repeat("a", MaxFieldLength)))
	})

	t.Run("rejects empty and oversized values", func(t *testing.T) {
		assert.False(t, ValidField(""))
		assert.False(t, ValidField(strings.Repeat("a", MaxFieldLength+1)))
	})
}

func TestUser_BorrowLifecycle(t *testing.T) {
	t.Run("can borrow until the limit is reached", func(t *testing.T) {
		user := &User{MaxBorrowCount: 2, BorrowHistory: []int{}}

		assert.True(t, user.CanBorrow())
		user.AddBorrowedBook(1)
		assert.True(t, user.CanBorrow())
		user.AddBorrowedBook(2)
		assert.False(t, user.CanBorrow())
		assert.Equal(t, 2, user.CurrentBorrowCount())
	})

	t.Run("adding a held book twice is a no-op", func(t *testing.T) {
		user := &User{MaxBorrowCount: 5, BorrowHistory: []int{}}

		user.AddBorrowedBook(7)
		user.AddBorrowedBook(7)

		assert.Equal(t, []int{7}, user.BorrowHistory)
	})

	t.Run("return frees a slot", func(t *testing.T) {
		user := &User{MaxBorrowCount: 1, BorrowHistory: []int{3}}

		assert.True(t, user.HoldsBook(3))
		user.RemoveBorrowedBook(3)
		assert.False(t, user.HoldsBook(3))
		assert.True(t, user.CanBorrow())
	})

	t.Run("removing an unheld book is a no-op", func(t *testing.T) {
		user := &User{MaxBorrowCount: 5, BorrowHistory: []int{1, 2}}

		user.RemoveBorrowedBook(99)

		assert.Equal(t, []int{1, 2}, user.BorrowHistory)
	})
}

func TestBook_BorrowState(t *testing.T) {
	t.Run("borrow sets borrower and keeps permanent history", func(t *testing.T) {
		book := &Book{IsAvailable: true, BorrowHistory: []int{}}

		book.MarkBorrowed(4)
		assert.False(t, book.IsAvailable)
		assert.Equal(t, 4, book.BorrowerID)

		book.MarkReturned()
		assert.True(t, book.IsAvailable)
		assert.Equal(t, 0, book.BorrowerID)
		assert.Equal(t, []int{4}, book.BorrowHistory, "history survives the return")
	})
}

func TestBook_MatchesKeyword(t *testing.T) {
	book := &Book{
		Title:    "The Go Programming Language",
		Author:   "Donovan",
		Category: "Computing",
		Keywords: "golang,reference",
	}

	t.Run("matches any field case-insensitively", func(t *testing.T) {
		assert.True(t, book.MatchesKeyword("go programming"))
		assert.True(t, book.MatchesKeyword("DONOVAN"))
		assert.True(t, book.MatchesKeyword("computing"))
		assert.True(t, book.MatchesKeyword("GOLANG"))
	})

	t.Run("rejects non-matching keyword", func(t *testing.T) {
		assert.False(t, book.MatchesKeyword("cooking"))
	})
}

func TestBorrowRecord_Close(t *testing.T) {
	t.Run("closing is one-shot", func(t *testing.T) {
		record := &BorrowRecord{RecordID: 1, BorrowTime: 100}

		record.Close(200)
		assert.True(t, record.IsReturned)
		assert.Equal(t, int64(200), record.ReturnTime)

		record.Close(999)
		assert.Equal(t, int64(200), record.ReturnTime, "second close must not move the return time")
	})
}
