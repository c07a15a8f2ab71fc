// Package statistics derives reporting counters from borrow activity.
// Everything here is recomputable from the borrow record collection; the
// aggregator is a cache, never an authority.
package statistics

import (
	"sort"
	"strconv"
	"time"
)

// Aggregator keeps three counter maps: per-book borrow counts, per-user
// borrow counts, and per-calendar-month borrow counts. It is not safe
// for concurrent use; the catalog store serializes access to it.
type Aggregator struct {
	bookPopularity map[int]int
	userActivity   map[int]int
	monthlyStats   map[string]int
}

// Entry is a counter paired with the id it counts.
type Entry struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		bookPopularity: make(map[int]int),
		userActivity:   make(map[int]int),
		monthlyStats:   make(map[string]int),
	}
}

// Clear resets all counters.
func (a *Aggregator) Clear() {
	a.bookPopularity = make(map[int]int)
	a.userActivity = make(map[int]int)
	a.monthlyStats = make(map[string]int)
}

// RecordBorrow bumps all three counters for a single borrow transaction.
func (a *Aggregator) RecordBorrow(userID, bookID int, borrowTime int64) {
	a.UpdateBookPopularity(bookID)
	a.UpdateUserActivity(userID)
	a.UpdateMonthlyStats(borrowTime)
}

// UnrecordBorrow reverses RecordBorrow. Used when a borrow transaction
// is rolled back after a failed snapshot write.
func (a *Aggregator) UnrecordBorrow(userID, bookID int, borrowTime int64) {
	decrement(a.bookPopularity, bookID)
	decrement(a.userActivity, userID)
	month := monthKey(borrowTime)
	a.monthlyStats[month]--
	if a.monthlyStats[month] <= 0 {
		delete(a.monthlyStats, month)
	}
}

func decrement(m map[int]int, key int) {
	m[key]--
	if m[key] <= 0 {
		delete(m, key)
	}
}

func (a *Aggregator) UpdateBookPopularity(bookID int) {
	a.bookPopularity[bookID]++
}

func (a *Aggregator) UpdateUserActivity(userID int) {
	a.userActivity[userID]++
}

// UpdateMonthlyStats buckets the borrow under its local YYYY-MM month.
func (a *Aggregator) UpdateMonthlyStats(borrowTime int64) {
	a.monthlyStats[monthKey(borrowTime)]++
}

func monthKey(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01")
}

// MostPopularBooks returns up to n books ordered by descending borrow
// count. Ties break by ascending book id so the order is deterministic.
func (a *Aggregator) MostPopularBooks(n int) []Entry {
	return topN(a.bookPopularity, n)
}

// MostActiveUsers returns up to n users ordered by descending borrow
// count, ties broken by ascending user id.
func (a *Aggregator) MostActiveUsers(n int) []Entry {
	return topN(a.userActivity, n)
}

func topN(counts map[int]int, n int) []Entry {
	entries := make([]Entry, 0, len(counts))
	for id, count := range counts {
		entries = append(entries, Entry{ID: id, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].ID < entries[j].ID
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// MonthlyTrends returns a copy of the per-month counters.
func (a *Aggregator) MonthlyTrends() map[string]int {
	trends := make(map[string]int, len(a.monthlyStats))
	for month, count := range a.monthlyStats {
		trends[month] = count
	}
	return trends
}

// Report is the serialized form of the aggregator. Numeric ids become
// string keys so the maps survive JSON object encoding.
type Report struct {
	BookPopularity map[string]int `json:"bookPopularity"`
	UserActivity   map[string]int `json:"userActivity"`
	MonthlyStats   map[string]int `json:"monthlyStats"`
}

// Serialize renders all counters with stringified keys.
func (a *Aggregator) Serialize() Report {
	report := Report{
		BookPopularity: make(map[string]int, len(a.bookPopularity)),
		UserActivity:   make(map[string]int, len(a.userActivity)),
		MonthlyStats:   make(map[string]int, len(a.monthlyStats)),
	}
	for id, count := range a.bookPopularity {
		report.BookPopularity[strconv.Itoa(id)] = count
	}
	for id, count := range a.userActivity {
		report.UserActivity[strconv.Itoa(id)] = count
	}
	for month, count := range a.monthlyStats {
		report.MonthlyStats[month] = count
	}
	return report
}
