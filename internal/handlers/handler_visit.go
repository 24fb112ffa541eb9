package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SalonKit/salon_pos_app/internal/apperrors"
	"github.com/SalonKit/salon_pos_app/internal/core/services"
	"github.com/SalonKit/salon_pos_app/internal/dto"
	"github.com/SalonKit/salon_pos_app/internal/middleware"
	portssvc "github.com/SalonKit/salon_pos_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// visitHandler handles HTTP requests for the visit settlement lifecycle.
type visitHandler struct {
	visitService portssvc.VisitSvcFacade
}

// newVisitHandler creates a new visitHandler.
func newVisitHandler(vs portssvc.VisitSvcFacade) *visitHandler {
	return &visitHandler{
		visitService: vs,
	}
}

// registerVisitRoutes registers routes related to visits.
func registerVisitRoutes(rg *gin.RouterGroup, visitService portssvc.VisitSvcFacade) {
	h := newVisitHandler(visitService)

	visits := rg.Group("/visits")
	{
		visits.POST("", h.createVisit)
		visits.GET("/:visitID", h.getVisit)
		visits.POST("/:visitID/line-items", h.addLineItem)
		visits.DELETE("/:visitID/line-items/:lineItemID", h.removeLineItem)
		visits.POST("/:visitID/finalize", h.finalizeVisit)
	}
}

// createVisit opens a new draft visit for a customer.
func (h *visitHandler) createVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVisit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("customer_id", req.CustomerID), slog.String("operator_id", operatorID))
	logger.Info("Received request to create visit")

	visit, err := h.visitService.CreateVisit(c.Request.Context(), req, operatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Dependency not found creating visit", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create visit in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create visit"})
		}
		return
	}

	logger.Info("Visit created successfully", slog.String("visit_id", visit.VisitID))
	c.JSON(http.StatusCreated, dto.ToVisitResponse(visit))
}

// getVisit retrieves a visit with its line items, payments, and totals.
func (h *visitHandler) getVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	logger = logger.With(slog.String("visit_id", visitID))

	visit, err := h.visitService.GetVisitByID(c.Request.Context(), visitID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Visit not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Visit not found"})
		} else {
			logger.Error("Failed to get visit from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve visit"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToVisitResponse(visit))
}

// addLineItem attaches a catalog item to a draft visit. The visit is repriced
// and any existing payments are cleared in the same transaction.
func (h *visitHandler) addLineItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	var req dto.AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddLineItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("visit_id", visitID), slog.String("item_id", req.ItemID), slog.String("operator_id", operatorID))
	logger.Info("Received request to add line item")

	visit, err := h.visitService.AddLineItem(c.Request.Context(), visitID, req, operatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Visit or catalog item not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrVisitNotDraft):
			logger.Warn("Line item rejected: visit is not draft")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrItemInactive), errors.Is(err, services.ErrDiscountNotInScope):
			logger.Warn("Line item rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to add line item in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add line item"})
		}
		return
	}

	logger.Info("Line item added successfully", slog.String("total", visit.TotalAmount.String()))
	c.JSON(http.StatusOK, dto.ToVisitResponse(visit))
}

// removeLineItem detaches a line item from a draft visit, repricing and
// clearing payments like addLineItem does.
func (h *visitHandler) removeLineItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")
	lineItemID := c.Param("lineItemID")

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("visit_id", visitID), slog.String("line_item_id", lineItemID), slog.String("operator_id", operatorID))
	logger.Info("Received request to remove line item")

	visit, err := h.visitService.RemoveLineItem(c.Request.Context(), visitID, lineItemID, operatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Visit or line item not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrVisitNotDraft):
			logger.Warn("Line item removal rejected: visit is not draft")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to remove line item in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove line item"})
		}
		return
	}

	logger.Info("Line item removed successfully", slog.String("total", visit.TotalAmount.String()))
	c.JSON(http.StatusOK, dto.ToVisitResponse(visit))
}

// finalizeVisit transitions a fully settled draft visit to FINALIZED.
func (h *visitHandler) finalizeVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("visit_id", visitID), slog.String("operator_id", operatorID))
	logger.Info("Received request to finalize visit")

	visit, err := h.visitService.FinalizeVisit(c.Request.Context(), visitID, operatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Visit not found for finalize")
			c.JSON(http.StatusNotFound, gin.H{"error": "Visit not found"})
		case errors.Is(err, services.ErrAlreadyFinalized):
			logger.Warn("Finalize rejected: visit already finalized")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotFullyPaid), errors.Is(err, services.ErrVisitNotDraft):
			logger.Warn("Finalize rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to finalize visit in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize visit"})
		}
		return
	}

	logger.Info("Visit finalized successfully")
	c.JSON(http.StatusOK, dto.ToVisitResponse(visit))
}
