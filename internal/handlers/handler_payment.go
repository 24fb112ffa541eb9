package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SalonKit/salon_pos_app/internal/apperrors"
	portssvc "github.com/SalonKit/salon_pos_app/internal/core/ports/services"
	"github.com/SalonKit/salon_pos_app/internal/core/services"
	"github.com/SalonKit/salon_pos_app/internal/dto"
	"github.com/SalonKit/salon_pos_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests for payments against a visit.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: ps,
	}
}

// registerPaymentRoutes registers payment routes nested under visits.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/visits/:visitID/payments")
	{
		payments.POST("", h.addPayment)
		payments.DELETE("/:paymentID", h.removePayment)
	}
}

// addPayment records a payment against a draft visit. Ledger-backed methods
// debit the customer's matching ledger in the same transaction.
func (h *paymentHandler) addPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	var req dto.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("visit_id", visitID), slog.String("method", req.Method), slog.String("operator_id", operatorID))
	logger.Info("Received request to add payment")

	payment, err := h.paymentService.AddPayment(c.Request.Context(), visitID, req, operatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Visit not found for payment")
			c.JSON(http.StatusNotFound, gin.H{"error": "Visit not found"})
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			logger.Warn("Payment rejected: insufficient balance")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrVisitNotDraft):
			logger.Warn("Payment rejected: visit is not draft")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidPaymentMethod), errors.Is(err, services.ErrPaymentNotPositive):
			logger.Warn("Payment rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to add payment in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add payment"})
		}
		return
	}

	logger.Info("Payment added successfully", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// removePayment deletes a payment from a draft visit, reversing its ledger
// debit first.
func (h *paymentHandler) removePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")
	paymentID := c.Param("paymentID")

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("visit_id", visitID), slog.String("payment_id", paymentID), slog.String("operator_id", operatorID))
	logger.Info("Received request to remove payment")

	err := h.paymentService.RemovePayment(c.Request.Context(), visitID, paymentID, operatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Visit or payment not found for removal")
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrVisitNotDraft):
			logger.Warn("Payment removal rejected: visit is not draft")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to remove payment in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove payment"})
		}
		return
	}

	logger.Info("Payment removed successfully")
	c.Status(http.StatusNoContent)
}
