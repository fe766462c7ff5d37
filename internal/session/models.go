package session

import "time"

// Session is the state bound to a client after a successful code
// verification. It lives for a fixed absolute duration independent of
// activity.
type Session struct {
	ID        string    `json:"id"`
	LoggedIn  bool      `json:"logged_in"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StatusResponse is the payload of the session status endpoint.
type StatusResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	Role     string `json:"role,omitempty"`
}
