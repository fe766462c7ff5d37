package accesscode

import "time"

// AccessCode represents a purchased (or test-issued) access code. The code
// string is the bearer credential handed to the buyer; the role is granted
// when the code is verified.
type AccessCode struct {
	ID         string     `json:"id"`
	Code       string     `json:"code"`
	Role       string     `json:"role"`
	PaymentID  *string    `json:"payment_id,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Expired reports whether the code is past its expiration at the given time.
func (a *AccessCode) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}

// GenerateCodeRequest is the request payload for issuing a code without a
// payment (test/debug entry point).
type GenerateCodeRequest struct {
	Role string `json:"role" binding:"required"`
}

// GenerateCodeResponse carries a freshly issued code back to the caller.
type GenerateCodeResponse struct {
	Code string `json:"code"`
}

// VerifyCodeResponse is returned when a code verifies successfully.
type VerifyCodeResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}
