package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SalonKit/salon_pos_app/internal/apperrors"
	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	portssvc "github.com/SalonKit/salon_pos_app/internal/core/ports/services"
	"github.com/SalonKit/salon_pos_app/internal/dto"
	"github.com/SalonKit/salon_pos_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// customerHandler handles HTTP requests for the customer-scoped read models:
// visit history, ledger balances, and ledger entry history.
type customerHandler struct {
	visitService  portssvc.VisitSvcFacade
	ledgerService portssvc.LedgerSvcFacade
}

// newCustomerHandler creates a new customerHandler.
func newCustomerHandler(vs portssvc.VisitSvcFacade, ls portssvc.LedgerSvcFacade) *customerHandler {
	return &customerHandler{
		visitService:  vs,
		ledgerService: ls,
	}
}

// registerCustomerRoutes registers the customer-scoped read routes.
func registerCustomerRoutes(rg *gin.RouterGroup, visitService portssvc.VisitSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newCustomerHandler(visitService, ledgerService)

	customers := rg.Group("/customers/:customerID")
	{
		customers.GET("/visits", h.listVisits)
		customers.GET("/balances", h.getBalances)
		customers.GET("/ledger/:ledgerType", h.listLedgerEntries)
	}
}

// listVisits retrieves a customer's visit history, newest first.
func (h *customerHandler) listVisits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	var params dto.ListVisitsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListVisits", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("customer_id", customerID))

	resp, err := h.visitService.ListVisitsByCustomer(c.Request.Context(), customerID, params)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
			logger.Warn("Invalid pagination token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}
		logger.Error("Failed to list visits from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list visits"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getBalances returns the customer's stored-value and points balances.
func (h *customerHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	logger = logger.With(slog.String("customer_id", customerID))

	balances, err := h.ledgerService.GetCustomerBalances(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Customer not found for balances")
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		} else {
			logger.Error("Failed to get balances from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balances"})
		}
		return
	}

	c.JSON(http.StatusOK, balances)
}

// listLedgerEntries retrieves the entry history for one customer ledger.
func (h *customerHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	ledgerType := domain.LedgerType(c.Param("ledgerType"))
	if ledgerType != domain.LedgerStoredValue && ledgerType != domain.LedgerPoints {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown ledger type: " + string(ledgerType)})
		return
	}

	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListLedgerEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("customer_id", customerID), slog.String("ledger_type", string(ledgerType)))

	resp, err := h.ledgerService.ListLedgerEntries(c.Request.Context(), customerID, ledgerType, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Customer not found for ledger history")
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		} else {
			logger.Error("Failed to list ledger entries from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger entries"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
