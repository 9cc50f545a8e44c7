package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"supermarket_api/internal/auth"
	"supermarket_api/internal/checkout"
	"supermarket_api/internal/config"
	"supermarket_api/internal/inventory"
	"supermarket_api/internal/report"
)

// apiHandler holds the core services and implements the HTTP handlers.
type apiHandler struct {
	inventoryService *inventory.Service
	checkoutService  *checkout.Service
	reportService    *report.Service
	authService      *auth.Service
	cfg              config.Config
	logger           *zap.Logger
}

// newAPIHandler creates a new handler over the assembled services.
func newAPIHandler(
	inv *inventory.Service,
	chk *checkout.Service,
	rep *report.Service,
	ath *auth.Service,
	cfg config.Config,
	logger *zap.Logger,
) *apiHandler {
	return &apiHandler{
		inventoryService: inv,
		checkoutService:  chk,
		reportService:    rep,
		authService:      ath,
		cfg:              cfg,
		logger:           logger,
	}
}

// handleLogin handles the POST /login endpoint.
func (h *apiHandler) handleLogin(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	token, session, err := h.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAuthFailure) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect username or password"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token, "role": session.Role})
}

// handleCreateItem handles the POST /items endpoint.
func (h *apiHandler) handleCreateItem(ctx *gin.Context) {
	var req struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
		Expiry   string  `json:"expiry"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	item := inventory.Item{
		ID:       req.ID,
		Name:     req.Name,
		Category: inventory.Category(req.Category),
		Price:    req.Price,
		Quantity: req.Quantity,
	}
	if req.Expiry != "" {
		expiry, err := time.ParseInLocation(time.DateOnly, req.Expiry, time.Local)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "expiry must be a YYYY-MM-DD date"})
			return
		}
		item.Expiry = &expiry
	}

	created, err := h.inventoryService.Create(item)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrInvalidID), errors.Is(err, inventory.ErrInvalidField):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, inventory.ErrDuplicateID):
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed to create item", zap.String("item_id", req.ID), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create item"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// handleListItems handles the GET /items endpoint. With ?format=csv the
// inventory is returned as a CSV download.
func (h *apiHandler) handleListItems(ctx *gin.Context) {
	items := h.inventoryService.List()

	if ctx.Query("format") == "csv" {
		filename := fmt.Sprintf("inventory_%s.csv", time.Now().Format(time.DateOnly))
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		ctx.Header("Content-Type", "text/csv")
		if err := report.WriteInventoryCSV(ctx.Writer, items); err != nil {
			h.logger.Error("failed to write inventory csv", zap.Error(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items})
}

// handleAlerts handles the GET /items/alerts endpoint, the low-stock or
// expiring-soon view.
func (h *apiHandler) handleAlerts(ctx *gin.Context) {
	items := h.reportService.Alerts(h.cfg.LowStockQty, h.cfg.ExpiryDays)
	ctx.JSON(http.StatusOK, gin.H{"items": items})
}

// handleUpdateItem handles the PATCH /items/:id endpoint. The price comes
// in as a string; a bad price does not fail the update, the quantity is
// still applied and the response carries a warning.
func (h *apiHandler) handleUpdateItem(ctx *gin.Context) {
	itemID := ctx.Param("id")
	var req struct {
		Quantity int    `json:"quantity"`
		Price    string `json:"price"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	item, warning, err := h.inventoryService.Update(itemID, req.Quantity, req.Price)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		case errors.Is(err, inventory.ErrInvalidQuantity):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed to update item", zap.String("item_id", itemID), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update item"})
		}
		return
	}

	resp := gin.H{"item": item}
	if warning {
		resp["warning"] = "invalid price entered, price not updated"
	}
	ctx.JSON(http.StatusOK, resp)
}

// handleDeleteItem handles the DELETE /items/:id endpoint.
func (h *apiHandler) handleDeleteItem(ctx *gin.Context) {
	itemID := ctx.Param("id")

	if err := h.inventoryService.Delete(itemID); err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		h.logger.Error("failed to delete item", zap.String("item_id", itemID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete item"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deleted": itemID})
}

// handleCheckout handles the POST /checkout endpoint.
func (h *apiHandler) handleCheckout(ctx *gin.Context) {
	var req struct {
		Lines []inventory.Line `json:"lines"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	receipt, err := h.checkoutService.Purchase(req.Lines)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyTransaction), errors.Is(err, inventory.ErrInvalidQuantity):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, inventory.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, inventory.ErrInsufficientStock):
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("checkout failed", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, receipt)
}

// handleDailyReport handles the GET /reports/daily endpoint.
func (h *apiHandler) handleDailyReport(ctx *gin.Context) {
	date, ok := h.dateQuery(ctx)
	if !ok {
		return
	}

	total, records := h.reportService.DailyTotal(date)
	ctx.JSON(http.StatusOK, gin.H{
		"date":    date.Format(time.DateOnly),
		"total":   total,
		"records": records,
	})
}

// handleSummary handles the GET /reports/summary endpoint. With
// ?format=csv the summary table is returned as a CSV download.
func (h *apiHandler) handleSummary(ctx *gin.Context) {
	now := time.Now()

	if ctx.Query("format") == "csv" {
		rows := h.reportService.ExportSummary(now)
		filename := fmt.Sprintf("sales_report_%s.csv", now.Format(time.DateOnly))
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		ctx.Header("Content-Type", "text/csv")
		if err := report.WriteSummaryCSV(ctx.Writer, rows); err != nil {
			h.logger.Error("failed to write summary csv", zap.Error(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"date":    now.Format(time.DateOnly),
		"summary": h.reportService.PeriodSummary(now),
	})
}

// handleHistory handles the GET /reports/history endpoint. With
// ?format=csv the day's records are returned as a CSV download.
func (h *apiHandler) handleHistory(ctx *gin.Context) {
	date, ok := h.dateQuery(ctx)
	if !ok {
		return
	}

	records, total := h.reportService.HistoryForDate(date)

	if ctx.Query("format") == "csv" {
		filename := fmt.Sprintf("sales_%s.csv", date.Format(time.DateOnly))
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		ctx.Header("Content-Type", "text/csv")
		if err := report.WriteSalesCSV(ctx.Writer, records); err != nil {
			h.logger.Error("failed to write sales csv", zap.Error(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"date":    date.Format(time.DateOnly),
		"total":   total,
		"records": records,
	})
}

// dateQuery parses the optional ?date=YYYY-MM-DD query, defaulting to
// today. On a malformed date it writes the error response itself and
// returns ok=false.
func (h *apiHandler) dateQuery(ctx *gin.Context) (time.Time, bool) {
	q := ctx.Query("date")
	if q == "" {
		return time.Now(), true
	}
	date, err := time.ParseInLocation(time.DateOnly, q, time.Local)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "date must be a YYYY-MM-DD date"})
		return time.Time{}, false
	}
	return date, true
}
