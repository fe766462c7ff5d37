package user

import "time"

// User is an account on the profile-auth path. Users sign in with a one-time
// login code and are then identified by a bearer token.
type User struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	Gender         string  `json:"gender"`
	Bio            string  `json:"bio"`
	Interests      string  `json:"interests"`
	ProfilePicture string  `json:"profilePicture"`
	Phone          string  `json:"phone"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	Country        string  `json:"country"`
	LoginCode      *string `json:"-"`
}

// VerifyLoginCodeRequest is the payload for exchanging a login code for a
// token.
type VerifyLoginCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// TokenResponse carries an issued bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// tokenTTL is how long issued bearer tokens stay valid
const tokenTTL = time.Hour
