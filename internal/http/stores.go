package http

import (
	"librarium/internal/audit"
	"librarium/internal/auth"
	"librarium/internal/entities"
	"librarium/internal/statistics"
)

// The controllers consume narrow slices of the catalog so tests can
// stub exactly what each endpoint touches.

type UserStore interface {
	AddUser(name, email, phone string) int
	UpdateUser(userID int, name, email, phone string) bool
	DeleteUser(userID int) bool
	FindUser(userID int) *entities.User
	SearchUsers(keyword string) []*entities.User
	GetAllUsers() []*entities.User
	GetUserBorrowHistory(userID int) []*entities.BorrowRecord
}

type BookStore interface {
	AddBook(title, author, category, keywords, description string) int
	UpdateBook(bookID int, title, author, category, keywords, description string) bool
	DeleteBook(bookID int) bool
	FindBook(bookID int) *entities.Book
	SearchBooks(keyword string) []*entities.Book
	GetAllBooks() []*entities.Book
	GetBookBorrowHistory(bookID int) []*entities.BorrowRecord
}

type CirculationStore interface {
	BorrowBook(userID, bookID int) bool
	ReturnBook(userID, bookID int) bool
	GetAllBorrowRecords() []*entities.BorrowRecord
}

type ReportingStore interface {
	StatisticsReport() statistics.Report
	MostPopularBooks(n int) []statistics.Entry
	MostActiveUsers(n int) []statistics.Entry
	Counts() (users, books, records int)
}

// RouterConfig carries every dependency the router wires into
// controllers. Optional fields may be nil; the router skips the
// features they back.
type RouterConfig struct {
	Users       UserStore
	Books       BookStore
	Circulation CirculationStore
	Reporting   ReportingStore

	Auditor        *audit.Auditor
	SessionManager *auth.SessionManager
	AuthController *auth.AuthController

	TemplatesPath string
	Version       string
}
