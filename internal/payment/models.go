package payment

// CreatePaymentResponse carries the provider payment id back to the client,
// which completes the approval flow against the provider directly.
type CreatePaymentResponse struct {
	ID string `json:"id"`
}

// ExecutePaymentRequest is sent by the client after the buyer approved the
// payment on the provider's side.
type ExecutePaymentRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	PayerID   string `json:"payerId" binding:"required"`
	Role      string `json:"role" binding:"required"`
}

// ExecutePaymentResponse returns the access code issued for the completed
// payment.
type ExecutePaymentResponse struct {
	Code string `json:"code"`
}
