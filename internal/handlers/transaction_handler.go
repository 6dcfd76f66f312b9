package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "khatabook/internal/errors"
	"khatabook/internal/pagination"
	"khatabook/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	Date          string  `json:"date" example:"2024-03-05"`
	Category      string  `json:"category" binding:"max=100"`
	Description   string  `json:"description" binding:"max=500"`
	Amount        *Amount `json:"amount" swaggertype:"number"`
	DebitAccount  string  `json:"debit_account" binding:"max=100"`
	CreditAccount string  `json:"credit_account" binding:"max=100"`
	Type          string  `json:"type" binding:"required,flow_type" enums:"pay,receive,transfer"`
}

// UpdateTransactionRequest holds the fields of a partial update. Omitted
// fields keep their stored value.
type UpdateTransactionRequest struct {
	Date          *string `json:"date"`
	Category      *string `json:"category" binding:"omitempty,max=100"`
	Description   *string `json:"description" binding:"omitempty,max=500"`
	Amount        *Amount `json:"amount" swaggertype:"number"`
	DebitAccount  *string `json:"debit_account" binding:"omitempty,max=100"`
	CreditAccount *string `json:"credit_account" binding:"omitempty,max=100"`
	Type          *string `json:"type" binding:"omitempty,flow_type"`
}

// BulkTransactionItem is one legacy entry of a bulk import. Every field is
// optional.
type BulkTransactionItem struct {
	Date          string  `json:"date"`
	Category      string  `json:"category" binding:"max=100"`
	Description   string  `json:"description" binding:"max=500"`
	Amount        *Amount `json:"amount" swaggertype:"number"`
	DebitAccount  string  `json:"debit_account" binding:"max=100"`
	CreditAccount string  `json:"credit_account" binding:"max=100"`
	Type          string  `json:"type"`
}

// BulkTransactionRequest represents a bulk import payload
type BulkTransactionRequest struct {
	Transactions []BulkTransactionItem `json:"transactions" binding:"required,min=1,max=1000,dive"`
}

// ListTransactions handles the retrieval of the user's transactions
// @Summary     List transactions
// @Description Without `page`, returns every transaction newest first. With `page`, returns a paginated, filtered list.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number; enables pagination"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       from_date query string false "Start date (YYYY-MM-DD)"
// @Param       to_date   query string false "End date (YYYY-MM-DD)"
// @Param       type      query string false "pay, receive or transfer"
// @Param       category  query string false "Category label"
// @Param       account   query string false "Account reference on either side"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if c.Query("page") == "" {
		transactions, err := h.transactionService.ListTransactions(userID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": transactions})
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	if v := c.Query("type"); v != "" {
		filter.Type = &v
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("account"); v != "" {
		filter.Account = &v
	}

	return filter, nil
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a pay, receive or transfer entry. Category defaults to Other, or Transfer for transfers.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if req.Date == "" || req.Amount == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date, amount and type are required"))
		return
	}
	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, services.TransactionInput{
		Date:          date,
		Category:      req.Category,
		Description:   req.Description,
		Amount:        req.Amount.Decimal(),
		DebitAccount:  req.DebitAccount,
		CreditAccount: req.CreditAccount,
		Type:          req.Type,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": transaction.Type, "amount": transaction.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// BulkCreateTransactions imports legacy entries
// @Summary     Bulk import transactions
// @Description Import many entries at once. Missing dates become today, missing types become pay and non-numeric amounts become 0. Missing categories become Transfer for transfers and Other otherwise. Unknown types are stored as written.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BulkTransactionRequest true "Entries to import"
// @Success     201 {object} map[string]int "Number of entries created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/bulk [post]
func (h *TransactionHandler) BulkCreateTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.TransactionInput, 0, len(req.Transactions))
	for _, item := range req.Transactions {
		var date time.Time
		if item.Date != "" {
			if parsed, err := parseFlexibleTime(item.Date); err == nil {
				date = parsed
			}
		}
		inputs = append(inputs, services.TransactionInput{
			Date:          date,
			Category:      item.Category,
			Description:   item.Description,
			Amount:        item.Amount.Decimal(),
			DebitAccount:  item.DebitAccount,
			CreditAccount: item.CreditAccount,
			Type:          item.Type,
		})
	}

	created, err := h.transactionService.BulkCreate(userID, inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "BULK_CREATE_TRANSACTIONS", "transaction", "", c.ClientIP(),
		map[string]interface{}{"count": created})

	c.JSON(http.StatusCreated, gin.H{"created": created})
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Description Get details of a specific transaction by its ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles a partial update of a transaction
// @Summary     Update a transaction
// @Description Update the supplied fields of a transaction. Omitted fields are kept.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	upd := services.TransactionUpdate{
		Category:      req.Category,
		Description:   req.Description,
		DebitAccount:  req.DebitAccount,
		CreditAccount: req.CreditAccount,
		Type:          req.Type,
	}
	if req.Date != nil {
		date, err := parseFlexibleTime(*req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		upd.Date = &date
	}
	if req.Amount != nil {
		amount := req.Amount.Decimal()
		upd.Amount = &amount
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, upd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete a transaction
// @Description Delete a specific transaction by its ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
