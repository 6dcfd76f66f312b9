package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "khatabook/internal/errors"
	"khatabook/internal/ledger"
	"khatabook/internal/models"
	"khatabook/internal/services"
)

// ReportHandler handles dashboard, report and report template requests.
type ReportHandler struct {
	reportService   services.ReportServicer
	templateService services.TemplateServicer
	auditService    services.AuditServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, templateService services.TemplateServicer, auditService services.AuditServicer) *ReportHandler {
	return &ReportHandler{
		reportService:   reportService,
		templateService: templateService,
		auditService:    auditService,
	}
}

// DateRangeRequest selects a report window. From and To are only read for
// the custom preset.
type DateRangeRequest struct {
	Preset string `json:"preset" binding:"required,date_preset"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// ReportRequest is the filter payload of a report.
type ReportRequest struct {
	DateRange     *DateRangeRequest `json:"date_range"`
	Types         []string          `json:"types" binding:"omitempty,dive,flow_type"`
	AccountGroups []string          `json:"account_groups" binding:"omitempty,dive,account_group"`
	Categories    []string          `json:"categories"`
}

// CreateTemplateRequest saves a named report configuration.
type CreateTemplateRequest struct {
	Name     string              `json:"name" binding:"required,max=100"`
	Criteria ReportRequest       `json:"criteria"`
	Views    *models.ReportViews `json:"views"`
}

func (r DateRangeRequest) toRange() (*ledger.DateRange, error) {
	dr := &ledger.DateRange{Preset: ledger.DatePreset(r.Preset)}
	if r.From != "" {
		t, err := parseFlexibleTime(r.From)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		dr.From = &t
	}
	if r.To != "" {
		t, err := parseFlexibleTime(r.To)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		dr.To = &t
	}
	return dr, nil
}

func (r ReportRequest) toCriteria() (ledger.Criteria, error) {
	var c ledger.Criteria
	if r.DateRange != nil {
		dr, err := r.DateRange.toRange()
		if err != nil {
			return c, err
		}
		c.DateRange = dr
	}
	for _, t := range r.Types {
		c.FlowTypes = append(c.FlowTypes, ledger.ClassifyFlow(t))
	}
	for _, g := range r.AccountGroups {
		c.AccountGroups = append(c.AccountGroups, ledger.AccountGroup(g))
	}
	c.Categories = r.Categories
	return c, nil
}

// parseWindow reads ?preset=, ?from_date= and ?to_date=. Bare from/to imply
// a custom range; no parameters means all time.
func parseWindow(c *gin.Context) (*ledger.DateRange, error) {
	req := DateRangeRequest{
		Preset: c.Query("preset"),
		From:   c.Query("from_date"),
		To:     c.Query("to_date"),
	}
	if req.Preset == "" {
		if req.From == "" && req.To == "" {
			return nil, nil
		}
		req.Preset = string(ledger.PresetCustom)
	}
	if !ledger.DatePreset(req.Preset).Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "preset must be today, thisMonth, lastMonth or custom")
	}
	return req.toRange()
}

// GetDashboard handles the landing page view
// @Summary     Dashboard
// @Description Overall totals, visible account balances and net worth across every transaction
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ledger.Dashboard "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.reportService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}

// GetNetWorth handles the net worth query
// @Summary     Net worth
// @Description Sum of every account balance, hidden accounts included
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Net worth"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth [get]
func (h *ReportHandler) GetNetWorth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	netWorth, err := h.reportService.NetWorth(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"net_worth": netWorth})
}

// RunReport handles an ad-hoc filtered report
// @Summary     Run a report
// @Description Filter transactions by date range, type, account group and category, then build every report table
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ReportRequest true "Report filters"
// @Success     200 {object} ledger.Report "Report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports [post]
func (h *ReportHandler) RunReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	criteria, err := req.toCriteria()
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.Run(c.Request.Context(), userID, criteria)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetExpenseSummary handles the expense breakdown
// @Summary     Expense summary
// @Description Total outgoing amount and its category breakdown, largest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       preset    query string false "today, thisMonth, lastMonth or custom"
// @Param       from_date query string false "Start date (YYYY-MM-DD)"
// @Param       to_date   query string false "End date (YYYY-MM-DD)"
// @Success     200 {object} ledger.FlowSummary "Expense summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/expenses [get]
func (h *ReportHandler) GetExpenseSummary(c *gin.Context) {
	h.windowed(c, "summary", func(userID string, window *ledger.DateRange) (interface{}, error) {
		return h.reportService.ExpenseSummary(c.Request.Context(), userID, window)
	})
}

// GetIncomeSummary handles the income breakdown
// @Summary     Income summary
// @Description Total incoming amount and its category breakdown, largest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       preset    query string false "today, thisMonth, lastMonth or custom"
// @Param       from_date query string false "Start date (YYYY-MM-DD)"
// @Param       to_date   query string false "End date (YYYY-MM-DD)"
// @Success     200 {object} ledger.FlowSummary "Income summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/income [get]
func (h *ReportHandler) GetIncomeSummary(c *gin.Context) {
	h.windowed(c, "summary", func(userID string, window *ledger.DateRange) (interface{}, error) {
		return h.reportService.IncomeSummary(c.Request.Context(), userID, window)
	})
}

// GetCategoryExpenses handles the per-category expense list
// @Summary     Category expenses
// @Description Outgoing amount per category, largest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       preset    query string false "today, thisMonth, lastMonth or custom"
// @Param       from_date query string false "Start date (YYYY-MM-DD)"
// @Param       to_date   query string false "End date (YYYY-MM-DD)"
// @Success     200 {array}  ledger.CategoryAmount "Category expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/categories [get]
func (h *ReportHandler) GetCategoryExpenses(c *gin.Context) {
	h.windowed(c, "categories", func(userID string, window *ledger.DateRange) (interface{}, error) {
		return h.reportService.CategoryExpenses(c.Request.Context(), userID, window)
	})
}

// GetAccountReport handles the per-account movement table
// @Summary     Account report
// @Description Inflow and outflow per account within the window, with each account's all-time balance
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       preset    query string false "today, thisMonth, lastMonth or custom"
// @Param       from_date query string false "Start date (YYYY-MM-DD)"
// @Param       to_date   query string false "End date (YYYY-MM-DD)"
// @Success     200 {array}  ledger.AccountRow "Account rows"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/accounts [get]
func (h *ReportHandler) GetAccountReport(c *gin.Context) {
	h.windowed(c, "accounts", func(userID string, window *ledger.DateRange) (interface{}, error) {
		return h.reportService.AccountReport(c.Request.Context(), userID, window)
	})
}

// GetMonthlyTrend handles the month-by-month trend
// @Summary     Monthly trend
// @Description Income, expense and net per month, oldest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       preset    query string false "today, thisMonth, lastMonth or custom"
// @Param       from_date query string false "Start date (YYYY-MM-DD)"
// @Param       to_date   query string false "End date (YYYY-MM-DD)"
// @Success     200 {array}  ledger.MonthRow "Months"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/monthly [get]
func (h *ReportHandler) GetMonthlyTrend(c *gin.Context) {
	h.windowed(c, "months", func(userID string, window *ledger.DateRange) (interface{}, error) {
		return h.reportService.MonthlyTrend(c.Request.Context(), userID, window)
	})
}

// GetDetailedTransactions handles the display-ready transaction table
// @Summary     Detailed transactions
// @Description Transactions newest first with account names resolved
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       preset    query string false "today, thisMonth, lastMonth or custom"
// @Param       from_date query string false "Start date (YYYY-MM-DD)"
// @Param       to_date   query string false "End date (YYYY-MM-DD)"
// @Success     200 {array}  ledger.DetailRow "Rows"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/transactions [get]
func (h *ReportHandler) GetDetailedTransactions(c *gin.Context) {
	h.windowed(c, "transactions", func(userID string, window *ledger.DateRange) (interface{}, error) {
		return h.reportService.DetailedTransactions(c.Request.Context(), userID, window)
	})
}

func (h *ReportHandler) windowed(c *gin.Context, key string, fn func(userID string, window *ledger.DateRange) (interface{}, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	window, err := parseWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := fn(userID, window)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{key: result})
}

// ListTemplates handles listing saved reports
// @Summary     List report templates
// @Description Saved report configurations, oldest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.ReportTemplate "Templates"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/templates [get]
func (h *ReportHandler) ListTemplates(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templates, err := h.templateService.ListTemplates(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// CreateTemplate handles saving a report configuration
// @Summary     Save a report template
// @Description Save filters and view toggles under a name. Omitted views enable every section.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTemplateRequest true "Template"
// @Success     201 {object} models.ReportTemplate "Template saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/templates [post]
func (h *ReportHandler) CreateTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	criteria, err := req.Criteria.toCriteria()
	if err != nil {
		respondWithError(c, err)
		return
	}
	views := models.DefaultReportViews()
	if req.Views != nil {
		views = *req.Views
	}

	template, err := h.templateService.CreateTemplate(userID, req.Name, criteria, views)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_REPORT_TEMPLATE", "report_template", template.ID, c.ClientIP(),
		map[string]interface{}{"name": template.Name})

	c.JSON(http.StatusCreated, gin.H{"template": template})
}

// DeleteTemplate handles removing a saved report
// @Summary     Delete a report template
// @Description Delete a saved report configuration
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template ID"
// @Success     200 {object} MessageResponse "Template deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/templates/{id} [delete]
func (h *ReportHandler) DeleteTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.templateService.DeleteTemplate(userID, templateID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_REPORT_TEMPLATE", "report_template", templateID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Report template deleted successfully"})
}
