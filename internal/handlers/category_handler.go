package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "khatabook/internal/errors"
	"khatabook/internal/ledger"
	"khatabook/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CategoryRequest carries a category label.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// categorySideParams holds the side path parameter.
type categorySideParams struct {
	Side string `uri:"side" binding:"required,category_side"`
}

func parseSide(c *gin.Context) (ledger.FlowType, error) {
	var params categorySideParams
	if err := c.ShouldBindUri(&params); err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "side must be pay or receive")
	}
	return ledger.FlowType(params.Side), nil
}

func parseIndex(c *gin.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid index")
	}
	return index, nil
}

// GetCategories handles the retrieval of both category lists
// @Summary     Get categories
// @Description Get the pay and receive category lists and their sorted union. An empty list falls back to the defaults.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ledger.Categories "Category lists"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.GetCategories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories, "labels": categories.Labels()})
}

// AddCategory handles appending a label
// @Summary     Add a category
// @Description Append a label to the pay or receive list
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       side    path string          true "pay or receive"
// @Param       request body CategoryRequest true "Label"
// @Success     201 {object} ledger.Categories "Updated lists"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{side} [post]
func (h *CategoryHandler) AddCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	side, err := parseSide(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	categories, err := h.categoryService.AddCategory(userID, side, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_CATEGORY", "category", string(side), c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"categories": categories})
}

// RenameCategory handles replacing a label
// @Summary     Rename a category
// @Description Replace the label at a position. Transactions keep the old label.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       side    path string          true "pay or receive"
// @Param       index   path int             true "Position in the list"
// @Param       request body CategoryRequest true "New label"
// @Success     200 {object} ledger.Categories "Updated lists"
// @Failure     400 {object} ErrorResponse "Invalid input or index"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{side}/{index} [put]
func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	side, err := parseSide(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	index, err := parseIndex(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	categories, err := h.categoryService.RenameCategory(userID, side, index, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RENAME_CATEGORY", "category", string(side), c.ClientIP(),
		map[string]interface{}{"index": index, "name": req.Name})

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// DeleteCategory handles removing a label
// @Summary     Delete a category
// @Description Remove the label at a position
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       side  path string true "pay or receive"
// @Param       index path int    true "Position in the list"
// @Success     200 {object} ledger.Categories "Updated lists"
// @Failure     400 {object} ErrorResponse "Invalid index"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{side}/{index} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	side, err := parseSide(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	index, err := parseIndex(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.DeleteCategory(userID, side, index)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CATEGORY", "category", string(side), c.ClientIP(),
		map[string]interface{}{"index": index})

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
