package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation

	"budget_system/internal/apperr"     // Typed errors
	"budget_system/internal/domain"     // Importing domain models
	"budget_system/internal/middleware" // Current user lookup
	"budget_system/internal/service"    // Business logic

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// CreateTransactionRequest represents a new ledger row
type CreateTransactionRequest struct {
	Description string  `json:"description"` // Required, non-empty
	Amount      *Amount `json:"amount"`      // Required, may be zero
	Category    *string `json:"category"`    // Defaults to Other
	Date        *string `json:"date"`        // ISO 8601, defaults to now
}

// UpdateTransactionRequest represents a partial update
type UpdateTransactionRequest struct {
	Description *string `json:"description"` // New description
	Amount      *Amount `json:"amount"`      // New amount
	Category    *string `json:"category"`    // New category
	Date        *string `json:"date"`        // New date
}

func (r UpdateTransactionRequest) empty() bool {
	return r.Description == nil && r.Amount == nil && r.Category == nil && r.Date == nil
}

// ListTransactionsHandler returns the user's transactions, filtered by search and category
func ListTransactionsHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		filter := domain.TransactionFilter{
			Search:   strings.TrimSpace(c.Query("search")),   // Description substring
			Category: strings.TrimSpace(c.Query("category")), // Exact category
		}
		list, err := txs.List(c.Request.Context(), user, filter)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": list})
	}
}

// CreateTransactionHandler records a transaction for the user
func CreateTransactionHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		var req CreateTransactionRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		t, err := txs.Create(c.Request.Context(), user, service.CreateInput{
			Description: req.Description,
			Amount:      req.Amount.float(),
			Category:    req.Category,
			Date:        req.Date,
		})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		logTransaction(user, t, "Transaction created")
		c.JSON(http.StatusCreated, gin.H{
			"message":     "transaction created", // Status message
			"transaction": t,                     // Stored transaction
		})
	}
}

// UpdateTransactionHandler applies a partial update. Owner or admin only.
func UpdateTransactionHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, apperr.ErrTransactionNotFound)
		if !ok {
			return
		}
		var req UpdateTransactionRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		if req.empty() {
			apperr.Respond(c, apperr.Validation("missing data"))
			return
		}
		t, err := txs.Update(c.Request.Context(), user, id, service.UpdateInput{
			Description: req.Description,
			Amount:      req.Amount.float(),
			Category:    req.Category,
			Date:        req.Date,
		})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		logTransaction(user, t, "Transaction updated")
		c.JSON(http.StatusOK, gin.H{
			"message":     "transaction updated", // Status message
			"transaction": t,                     // Updated transaction
		})
	}
}

// DeleteTransactionHandler removes a transaction. Owner or admin only.
func DeleteTransactionHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, apperr.ErrTransactionNotFound)
		if !ok {
			return
		}
		if err := txs.Delete(c.Request.Context(), user, id); err != nil {
			apperr.Respond(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"actor_id":       user.ID, // Who deleted it
			"transaction_id": id,      // Deleted row
		}).Info("Transaction deleted")
		c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
	}
}

// ListAllTransactionsHandler returns every transaction with its owner. Admin only.
func ListAllTransactionsHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := domain.TransactionFilter{
			Search:   strings.TrimSpace(c.Query("search")),   // Description substring
			Category: strings.TrimSpace(c.Query("category")), // Exact category
			User:     strings.TrimSpace(c.Query("user")),     // User ID or username
		}
		page := pageFromQuery(c)
		rows, total, err := txs.ListAll(c.Request.Context(), filter, page)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		resp := gin.H{"all_transactions": rows}
		addPaging(resp, page, total)
		c.JSON(http.StatusOK, resp)
	}
}

// CategoriesHandler returns the distinct categories of the user's transactions
func CategoriesHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		categories, err := txs.Categories(c.Request.Context(), user)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

// StatsHandler aggregates the user's transactions for ?year= and optional ?month=
func StatsHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		year, err := queryInt(c, "year")
		if err != nil {
			apperr.Respond(c, apperr.ErrInvalidPeriod)
			return
		}
		month, err := queryInt(c, "month")
		if err != nil {
			apperr.Respond(c, apperr.ErrInvalidPeriod)
			return
		}
		stats, err := txs.Stats(c.Request.Context(), user, year, month)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// currentUser reads the authenticated user, answering 401 when there is none
func currentUser(c *gin.Context) (*domain.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperr.Respond(c, apperr.ErrUnauthenticated)
	}
	return user, ok
}

// pathID parses the :id segment. A non-numeric id names no resource.
func pathID(c *gin.Context, notFound *apperr.Error) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apperr.Respond(c, notFound)
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional integer query parameter, 0 when absent
func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func logTransaction(actor *domain.User, t *domain.Transaction, msg string) {
	logrus.WithFields(logrus.Fields{
		"actor_id":       actor.ID,   // Who made the change
		"owner_id":       t.UserID,   // Owning user
		"transaction_id": t.ID,       // Transaction ID
		"amount":         t.Amount,   // Signed amount
		"category":       t.Category, // Category
	}).Info(msg)
}
