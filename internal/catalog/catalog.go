// Package catalog is the single authority over users, books and borrow
// records. Every mutation happens under one write lock and ends with a
// full snapshot rewrite; if that write fails the in-memory change is
// rolled back, so memory and disk never diverge.
package catalog

import (
	"log"
	"strings"
	"sync"
	"time"

	"librarium/internal/entities"
	"librarium/internal/persistence"
	"librarium/internal/statistics"
)

// Catalog owns the three entity collections and their id counters.
// Counters are monotonic: an id handed out is never reused, even after
// the entity is deleted.
type Catalog struct {
	mu    sync.RWMutex
	store *persistence.Store
	stats *statistics.Aggregator

	users   []*entities.User
	books   []*entities.Book
	records []*entities.BorrowRecord

	nextUserID   int
	nextBookID   int
	nextRecordID int

	now func() time.Time
}

// Open loads the snapshot files, rebuilds the id counters from the data
// and replays every borrow record into the statistics aggregator.
func Open(store *persistence.Store) (*Catalog, error) {
	snap, err := store.Load()
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		store:        store,
		stats:        statistics.NewAggregator(),
		users:        snap.Users,
		books:        snap.Books,
		records:      snap.Records,
		nextUserID:   snap.NextUserID(),
		nextBookID:   snap.NextBookID(),
		nextRecordID: snap.NextRecordID(),
		now:          time.Now,
	}
	c.rebuildStatistics()

	log.Printf("Catalog loaded: %d users, %d books, %d borrow records", len(c.users), len(c.books), len(c.records))
	return c, nil
}

// rebuildStatistics recomputes all counters from the record collection
// in stored order. Caller holds the write lock (or is the constructor).
func (c *Catalog) rebuildStatistics() {
	c.stats.Clear()
	for _, r := range c.records {
		c.stats.RecordBorrow(r.UserID, r.BookID, r.BorrowTime)
	}
}

// persist rewrites the full snapshot. Caller holds the write lock.
func (c *Catalog) persist() error {
	err := c.store.Save(&persistence.Snapshot{
		Users:   c.users,
		Books:   c.books,
		Records: c.records,
	})
	if err != nil {
		log.Printf("Failed to persist catalog snapshot: %v", err)
	}
	return err
}

// --- Users ---

// AddUser registers a user and returns the assigned id, or -1 when name
// or email is empty or too long.
func (c *Catalog) AddUser(name, email, phone string) int {
	if !entities.ValidField(name) || !entities.ValidField(email) {
		return -1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	user := &entities.User{
		ID:             c.nextUserID,
		Name:           name,
		Email:          email,
		Phone:          phone,
		MaxBorrowCount: entities.DefaultMaxBorrowCount,
		CreateTime:     c.now().Unix(),
		BorrowHistory:  []int{},
	}
	c.users = append(c.users, user)
	c.nextUserID++

	if err := c.persist(); err != nil {
		c.users = c.users[:len(c.users)-1]
		c.nextUserID--
		return -1
	}
	return user.ID
}

// DeleteUser removes a user. It fails when the user does not exist or
// still holds borrowed books.
func (c *Catalog) DeleteUser(userID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, user := c.findUser(userID)
	if user == nil || user.CurrentBorrowCount() > 0 {
		return false
	}

	c.users = append(c.users[:i], c.users[i+1:]...)
	if err := c.persist(); err != nil {
		c.users = append(c.users[:i], append([]*entities.User{user}, c.users[i:]...)...)
		return false
	}
	return true
}

// UpdateUser overwrites the mutable user fields. Id, creation time and
// borrow state are untouched.
func (c *Catalog) UpdateUser(userID int, name, email, phone string) bool {
	if !entities.ValidField(name) || !entities.ValidField(email) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, user := c.findUser(userID)
	if user == nil {
		return false
	}

	prevName, prevEmail, prevPhone := user.Name, user.Email, user.Phone
	user.Name, user.Email, user.Phone = name, email, phone

	if err := c.persist(); err != nil {
		user.Name, user.Email, user.Phone = prevName, prevEmail, prevPhone
		return false
	}
	return true
}

// FindUser returns a copy of the user, or nil if the id is unknown.
func (c *Catalog) FindUser(userID int) *entities.User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, user := c.findUser(userID)
	if user == nil {
		return nil
	}
	return cloneUser(user)
}

// FindUserByNameOrEmail returns a copy of the first user whose name or
// email equals the given credential, or nil. Used by the login stub.
func (c *Catalog) FindUserByNameOrEmail(nameOrEmail string) *entities.User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, user := range c.users {
		if user.Name == nameOrEmail || user.Email == nameOrEmail {
			return cloneUser(user)
		}
	}
	return nil
}

// SearchUsers matches the keyword case-insensitively against names but
// case-sensitively against emails. The asymmetry is inherited from the
// original system and pinned by tests; see DESIGN.md.
func (c *Catalog) SearchUsers(keyword string) []*entities.User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lowered := strings.ToLower(keyword)
	result := []*entities.User{}
	for _, user := range c.users {
		if strings.Contains(strings.ToLower(user.Name), lowered) || strings.Contains(user.Email, keyword) {
			result = append(result, cloneUser(user))
		}
	}
	return result
}

// GetAllUsers returns copies of every user in stored order.
func (c *Catalog) GetAllUsers() []*entities.User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*entities.User, 0, len(c.users))
	for _, user := range c.users {
		result = append(result, cloneUser(user))
	}
	return result
}

// --- Books ---

// AddBook registers a book and returns the assigned id, or -1 when
// title or author is empty or too long.
func (c *Catalog) AddBook(title, author, category, keywords, description string) int {
	if !entities.ValidField(title) || !entities.ValidField(author) {
		return -1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	book := &entities.Book{
		ID:            c.nextBookID,
		Title:         title,
		Author:        author,
		Category:      category,
		Keywords:      keywords,
		Description:   description,
		IsAvailable:   true,
		CreateTime:    c.now().Unix(),
		BorrowHistory: []int{},
	}
	c.books = append(c.books, book)
	c.nextBookID++

	if err := c.persist(); err != nil {
		c.books = c.books[:len(c.books)-1]
		c.nextBookID--
		return -1
	}
	return book.ID
}

// DeleteBook removes a book. It fails when the book does not exist or
// is currently borrowed.
func (c *Catalog) DeleteBook(bookID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, book := c.findBook(bookID)
	if book == nil || !book.IsAvailable {
		return false
	}

	c.books = append(c.books[:i], c.books[i+1:]...)
	if err := c.persist(); err != nil {
		c.books = append(c.books[:i], append([]*entities.Book{book}, c.books[i:]...)...)
		return false
	}
	return true
}

// UpdateBook overwrites the mutable book fields. Availability, borrower
// and history are untouched.
func (c *Catalog) UpdateBook(bookID int, title, author, category, keywords, description string) bool {
	if !entities.ValidField(title) || !entities.ValidField(author) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, book := c.findBook(bookID)
	if book == nil {
		return false
	}

	prev := *book
	book.Title, book.Author = title, author
	book.Category, book.Keywords, book.Description = category, keywords, description

	if err := c.persist(); err != nil {
		book.Title, book.Author = prev.Title, prev.Author
		book.Category, book.Keywords, book.Description = prev.Category, prev.Keywords, prev.Description
		return false
	}
	return true
}

// FindBook returns a copy of the book, or nil if the id is unknown.
func (c *Catalog) FindBook(bookID int) *entities.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, book := c.findBook(bookID)
	if book == nil {
		return nil
	}
	return cloneBook(book)
}

// SearchBooks matches the keyword case-insensitively against title,
// author, category and keywords.
func (c *Catalog) SearchBooks(keyword string) []*entities.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := []*entities.Book{}
	for _, book := range c.books {
		if book.MatchesKeyword(keyword) {
			result = append(result, cloneBook(book))
		}
	}
	return result
}

// GetAllBooks returns copies of every book in stored order.
func (c *Catalog) GetAllBooks() []*entities.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*entities.Book, 0, len(c.books))
	for _, book := range c.books {
		result = append(result, cloneBook(book))
	}
	return result
}

// --- Circulation ---

// BorrowBook lends a book to a user. It fails when either id is
// unknown, the user is at their borrow limit, or the book is already
// lent out. On success the book is marked unavailable, the loan joins
// both histories, a new open record is created and the statistics are
// updated, all before the snapshot write.
func (c *Catalog) BorrowBook(userID, bookID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, user := c.findUser(userID)
	_, book := c.findBook(bookID)
	if user == nil || book == nil {
		return false
	}
	if !user.CanBorrow() || !book.IsAvailable {
		return false
	}

	borrowTime := c.now().Unix()
	book.MarkBorrowed(userID)
	user.AddBorrowedBook(bookID)

	record := &entities.BorrowRecord{
		RecordID:   c.nextRecordID,
		UserID:     userID,
		BookID:     bookID,
		BorrowTime: borrowTime,
	}
	c.records = append(c.records, record)
	c.nextRecordID++

	c.stats.RecordBorrow(userID, bookID, borrowTime)

	if err := c.persist(); err != nil {
		c.stats.UnrecordBorrow(userID, bookID, borrowTime)
		c.records = c.records[:len(c.records)-1]
		c.nextRecordID--
		user.RemoveBorrowedBook(bookID)
		book.MarkReturned()
		book.BorrowHistory = book.BorrowHistory[:len(book.BorrowHistory)-1]
		return false
	}
	return true
}

// ReturnBook takes a book back from a user. It fails when either id is
// unknown, the book is already available, or it is held by a different
// user; a wrong-user return is rejected, never silently corrected. The
// first open record for the pair, in stored order, is closed.
func (c *Catalog) ReturnBook(userID, bookID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, user := c.findUser(userID)
	_, book := c.findBook(bookID)
	if user == nil || book == nil {
		return false
	}
	if book.IsAvailable || book.BorrowerID != userID {
		return false
	}

	held := user.HoldsBook(bookID)
	book.MarkReturned()
	user.RemoveBorrowedBook(bookID)

	var closed *entities.BorrowRecord
	for _, r := range c.records {
		if r.UserID == userID && r.BookID == bookID && !r.IsReturned {
			r.Close(c.now().Unix())
			closed = r
			break
		}
	}

	if err := c.persist(); err != nil {
		if closed != nil {
			closed.IsReturned = false
			closed.ReturnTime = 0
		}
		if held {
			user.AddBorrowedBook(bookID)
		}
		book.IsAvailable = false
		book.BorrowerID = userID
		return false
	}
	return true
}

// GetUserBorrowHistory returns copies of every record for the user.
func (c *Catalog) GetUserBorrowHistory(userID int) []*entities.BorrowRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := []*entities.BorrowRecord{}
	for _, r := range c.records {
		if r.UserID == userID {
			clone := *r
			result = append(result, &clone)
		}
	}
	return result
}

// GetBookBorrowHistory returns copies of every record for the book.
func (c *Catalog) GetBookBorrowHistory(bookID int) []*entities.BorrowRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := []*entities.BorrowRecord{}
	for _, r := range c.records {
		if r.BookID == bookID {
			clone := *r
			result = append(result, &clone)
		}
	}
	return result
}

// GetAllBorrowRecords returns copies of every record in stored order.
func (c *Catalog) GetAllBorrowRecords() []*entities.BorrowRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*entities.BorrowRecord, 0, len(c.records))
	for _, r := range c.records {
		clone := *r
		result = append(result, &clone)
	}
	return result
}

// --- Statistics & reporting ---

// StatisticsReport serializes the current counters.
func (c *Catalog) StatisticsReport() statistics.Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats.Serialize()
}

// MostPopularBooks returns the top n books by borrow count.
func (c *Catalog) MostPopularBooks(n int) []statistics.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats.MostPopularBooks(n)
}

// MostActiveUsers returns the top n users by borrow count.
func (c *Catalog) MostActiveUsers(n int) []statistics.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats.MostActiveUsers(n)
}

// Counts returns the collection sizes for reporting endpoints.
func (c *Catalog) Counts() (users, books, records int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users), len(c.books), len(c.records)
}

// --- Seeding ---

// Seed inserts demo users and books into an empty catalog. It is a
// no-op when any users or books already exist.
func (c *Catalog) Seed() (usersAdded, booksAdded int) {
	users, books, _ := c.Counts()
	if users > 0 || books > 0 {
		return 0, 0
	}

	seedUsers := [][3]string{
		{"Alice Zhang", "alice@example.com", "555-0101"},
		{"Ben Carter", "ben@example.com", "555-0102"},
		{"Carol Singh", "carol@example.com", "555-0103"},
	}
	for _, u := range seedUsers {
		if c.AddUser(u[0], u[1], u[2]) > 0 {
			usersAdded++
		}
	}

	seedBooks := [][5]string{
		{"The C++ Programming Language", "Bjarne Stroustrup", "Computing", "programming,c++", "The definitive C++ reference"},
		{"Structure and Interpretation of Computer Programs", "Abelson and Sussman", "Computing", "programming,lisp", "Classic introduction to computation"},
		{"Operating System Concepts", "Abraham Silberschatz", "Computing", "operating systems", "Principles of operating systems"},
		{"Computer Networking", "James Kurose", "Computing", "networking", "A top-down approach to networking"},
		{"Software Engineering", "Ian Sommerville", "Computing", "software engineering", "Theory and practice of software engineering"},
	}
	for _, b := range seedBooks {
		if c.AddBook(b[0], b[1], b[2], b[3], b[4]) > 0 {
			booksAdded++
		}
	}
	return usersAdded, booksAdded
}

// --- Internal lookups (caller holds a lock) ---

func (c *Catalog) findUser(userID int) (int, *entities.User) {
	for i, user := range c.users {
		if user.ID == userID {
			return i, user
		}
	}
	return -1, nil
}

func (c *Catalog) findBook(bookID int) (int, *entities.Book) {
	for i, book := range c.books {
		if book.ID == bookID {
			return i, book
		}
	}
	return -1, nil
}

func cloneUser(u *entities.User) *entities.User {
	clone := *u
	clone.BorrowHistory = append([]int{}, u.BorrowHistory...)
	return &clone
}

func cloneBook(b *entities.Book) *entities.Book {
	clone := *b
	clone.BorrowHistory = append([]int{}, b.BorrowHistory...)
	return &clone
}
