package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"librarium/internal/audit"
)

// CirculationController handles the borrow and return transactions.
// Every attempt, successful or not, lands in the audit trail when one
// is configured.
type CirculationController struct {
	store   CirculationStore
	auditor *audit.Auditor
}

func NewCirculationController(store CirculationStore, auditor *audit.Auditor) *CirculationController {
	return &CirculationController{
		store:   store,
		auditor: auditor,
	}
}

type circulationRequest struct {
	UserID int `json:"userId"`
	BookID int `json:"bookId"`
}

func (controller *CirculationController) Borrow(c *gin.Context) {
	var req circulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ok := controller.store.BorrowBook(req.UserID, req.BookID)
	controller.recordEvent("borrow", req, ok)

	if !ok {
		respondFailure(c, http.StatusBadRequest, "borrow failed: user not found, book unavailable, or borrow limit reached")
		return
	}
	respondSuccess(c, "Book borrowed successfully")
}

func (controller *CirculationController) Return(c *gin.Context) {
	var req circulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ok := controller.store.ReturnBook(req.UserID, req.BookID)
	controller.recordEvent("return", req, ok)

	if !ok {
		respondFailure(c, http.StatusBadRequest, "return failed: unknown ids, book not borrowed, or held by another user")
		return
	}
	respondSuccess(c, "Book returned successfully")
}

// ListRecords returns every borrow record, open and closed.
func (controller *CirculationController) ListRecords(c *gin.Context) {
	records := controller.store.GetAllBorrowRecords()
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// recordEvent writes to the audit trail. Audit failures are logged and
// swallowed; they never change the response.
func (controller *CirculationController) recordEvent(action string, req circulationRequest, success bool) {
	if controller.auditor == nil {
		return
	}
	_, err := controller.auditor.RecordEvent(audit.Event{
		Action:  action,
		UserID:  req.UserID,
		BookID:  req.BookID,
		Success: success,
	})
	if err != nil {
		log.Printf("Failed to record %s audit event: %v", action, err)
	}
}
