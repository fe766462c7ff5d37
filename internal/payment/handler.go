package payment

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"gatecode/internal/accesscode"
)

// Handler handles the payment endpoints of the purchase flow
type Handler struct {
	provider Provider
	codes    accesscode.Service
	logger   *slog.Logger
}

// NewHandler creates a new payment handler
func NewHandler(provider Provider, codes accesscode.Service, logger *slog.Logger) *Handler {
	return &Handler{
		provider: provider,
		codes:    codes,
		logger:   logger,
	}
}

// CreatePayment handles POST /create-payment. It starts a provider payment
// for one access code and returns the provider payment id; the client drives
// the approval flow from there.
func (h *Handler) CreatePayment(c *gin.Context) {
	id, err := h.provider.Create(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to create payment", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment"})
		return
	}

	c.JSON(http.StatusOK, CreatePaymentResponse{ID: id})
}

// ExecutePayment handles POST /execute-payment. On provider confirmation it
// issues an access code for the requested role. Issuance is idempotent per
// payment id, so a retried or duplicated confirmation returns the code that
// was already sold.
func (h *Handler) ExecutePayment(c *gin.Context) {
	var req ExecutePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.provider.Execute(c.Request.Context(), req.PaymentID, req.PayerID); err != nil {
		h.logger.Error("Failed to execute payment",
			"payment_id", req.PaymentID,
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to execute payment"})
		return
	}

	ac, err := h.codes.Issue(c.Request.Context(), req.Role, req.PaymentID)
	if err != nil {
		// The buyer has paid at this point; the failure is logged with
		// the payment id so the code can be issued manually.
		h.logger.Error("Failed to issue access code for completed payment",
			"payment_id", req.PaymentID,
			"role", req.Role,
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue access code"})
		return
	}

	c.JSON(http.StatusOK, ExecutePaymentResponse{Code: ac.Code})
}
