// Package entities defines the catalog's data records: users, books and
// borrow records. They are plain structs; all lifecycle rules live in the
// catalog store, and the JSON tags are the wire and snapshot format.
package entities

import "strings"

// MaxFieldLength is the upper bound for validated text fields.
const MaxFieldLength = 255

// DefaultMaxBorrowCount is the per-user cap on simultaneous loans.
const DefaultMaxBorrowCount = 5

// ValidField reports whether a required text field is acceptable:
// non-empty and at most MaxFieldLength characters.
func ValidField(s string) bool {
	return s != "" && len(s) <= MaxFieldLength
}

// User is a registered library reader.
//
// BorrowHistory holds the ids of the books the user currently has on
// loan; entries are removed on return. Duplicates are suppressed.
type User struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	MaxBorrowCount int    `json:"maxBorrowCount"`
	CreateTime     int64  `json:"createTime"`
	BorrowHistory  []int  `json:"borrowHistory"`
}

// CurrentBorrowCount returns the number of books currently on loan.
func (u *User) CurrentBorrowCount() int {
	return len(u.BorrowHistory)
}

// CanBorrow reports whether the user is below their borrow limit.
func (u *User) CanBorrow() bool {
	return len(u.BorrowHistory) < u.MaxBorrowCount
}

// AddBorrowedBook records bookID as currently held. Adding a book the
// user already holds is a no-op.
func (u *User) AddBorrowedBook(bookID int) {
	for _, id := range u.BorrowHistory {
		if id == bookID {
			return
		}
	}
	u.BorrowHistory = append(u.BorrowHistory, bookID)
}

// RemoveBorrowedBook drops bookID from the active loan list.
func (u *User) RemoveBorrowedBook(bookID int) {
	for i, id := range u.BorrowHistory {
		if id == bookID {
			u.BorrowHistory = append(u.BorrowHistory[:i], u.BorrowHistory[i+1:]...)
			return
		}
	}
}

// HoldsBook reports whether bookID is in the user's active loan list.
func (u *User) HoldsBook(bookID int) bool {
	for _, id := range u.BorrowHistory {
		if id == bookID {
			return true
		}
	}
	return false
}

// Book is a catalog title.
//
// BorrowHistory is append-only: every user id that ever borrowed the
// book, in borrow order. It is never pruned, unlike User.BorrowHistory.
// Invariant: IsAvailable == (BorrowerID == 0).
type Book struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Category      string `json:"category"`
	Keywords      string `json:"keywords"`
	Description   string `json:"description"`
	IsAvailable   bool   `json:"isAvailable"`
	BorrowerID    int    `json:"borrowerId"`
	CreateTime    int64  `json:"createTime"`
	BorrowHistory []int  `json:"borrowHistory"`
}

// MarkBorrowed flags the book as lent to userID and appends the loan to
// the permanent history. Caller must have checked availability.
func (b *Book) MarkBorrowed(userID int) {
	b.IsAvailable = false
	b.BorrowerID = userID
	b.BorrowHistory = append(b.BorrowHistory, userID)
}

// MarkReturned flags the book as available again.
func (b *Book) MarkReturned() {
	b.IsAvailable = true
	b.BorrowerID = 0
}

// MatchesKeyword reports whether keyword occurs, case-insensitively, in
// the book's title, author, category or keywords.
func (b *Book) MatchesKeyword(keyword string) bool {
	kw := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(b.Title), kw) ||
		strings.Contains(strings.ToLower(b.Author), kw) ||
		strings.Contains(strings.ToLower(b.Category), kw) ||
		strings.Contains(strings.ToLower(b.Keywords), kw)
}

// BorrowRecord is a single loan transaction. Records are immutable
// except for the one-shot return transition and are never deleted.
type BorrowRecord struct {
	RecordID   int   `json:"recordId"`
	UserID     int   `json:"userId"`
	BookID     int   `json:"bookId"`
	BorrowTime int64 `json:"borrowTime"`
	ReturnTime int64 `json:"returnTime"`
	IsReturned bool  `json:"isReturned"`
}

// Close marks the record returned at the given time. Closing an already
// returned record is a no-op.
func (r *BorrowRecord) Close(returnTime int64) {
	if r.IsReturned {
		return
	}
	r.ReturnTime = returnTime
	r.IsReturned = true
}
