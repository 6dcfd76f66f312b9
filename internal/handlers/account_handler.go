package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "khatabook/internal/errors"
	"khatabook/internal/ledger"
	"khatabook/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
	reportService  services.ReportServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, reportService services.ReportServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, reportService: reportService, auditService: auditService}
}

// AccountRequest represents the request payload for creating or updating an
// account. Omitted fields keep their current value on update.
type AccountRequest struct {
	Name           *string `json:"name" binding:"omitempty,max=100"`
	Icon           *string `json:"icon" binding:"omitempty,max=16"`
	Visible        *bool   `json:"visible"`
	OpeningBalance *Amount `json:"opening_balance" swaggertype:"number"`
}

// ReorderAccountsRequest lists account ids in their new display order.
type ReorderAccountsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func (r AccountRequest) input(id string) ledger.AccountInput {
	in := ledger.AccountInput{ID: id, Name: r.Name, Icon: r.Icon, Visible: r.Visible}
	if r.OpeningBalance != nil {
		opening := r.OpeningBalance.Decimal()
		in.OpeningBalance = &opening
	}
	return in
}

// ListAccounts handles the retrieval of the chart of accounts
// @Summary     List accounts
// @Description Get the user's accounts in display order. Pass visible=true for dropdowns.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       visible query bool false "Only visible accounts"
// @Success     200 {array}  ledger.Account "Accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(userID, c.Query("visible") == "true")
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// CreateAccount handles the creation of a user account
// @Summary     Create an account
// @Description Add an account to the chart of accounts
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AccountRequest true "Account details"
// @Success     201 {object} ledger.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpsertAccount(userID, req.input(""))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ACCOUNT", "account", account.ID, c.ClientIP(),
		map[string]interface{}{"name": account.Name})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// UpdateAccount handles renaming, hiding or rebalancing an account
// @Summary     Update an account
// @Description Update an account's name, icon, visibility or opening balance. Unknown ids create a new account.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Account ID"
// @Param       request body AccountRequest true "Fields to change"
// @Success     200 {object} ledger.Account "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpsertAccount(userID, req.input(accountID))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ACCOUNT", "account", account.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount handles removing a user account
// @Summary     Delete an account
// @Description Delete a user-created account. Default accounts cannot be deleted. Transactions keep their references.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} MessageResponse "Account deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Default account"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ACCOUNT", "account", accountID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

// ReorderAccounts handles changing the display order
// @Summary     Reorder accounts
// @Description Move the listed accounts to the front in the given order
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ReorderAccountsRequest true "Account ids in order"
// @Success     200 {array}  ledger.Account "Accounts in their new order"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/order [put]
func (h *AccountHandler) ReorderAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReorderAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	accounts, err := h.accountService.ReorderAccounts(userID, req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REORDER_ACCOUNTS", "account", "", c.ClientIP(),
		map[string]interface{}{"ids": req.IDs})

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// GetAccountBalances handles the retrieval of derived balances
// @Summary     Account balances
// @Description Every account, hidden ones included, with inflow, outflow and balance derived from all transactions
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  ledger.AccountBalance "Balances"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/balances [get]
func (h *AccountHandler) GetAccountBalances(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	balances, err := h.reportService.AccountBalances(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": balances})
}
