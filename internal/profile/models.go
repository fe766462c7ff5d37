package profile

import "time"

// Profile is a dating-style profile record with a picture stored in object
// storage.
type Profile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	Bio            string    `json:"bio"`
	Interests      string    `json:"interests"`
	Phone          string    `json:"phone"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	Country        string    `json:"country"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateProfileResponse confirms profile creation
type CreateProfileResponse struct {
	Message string   `json:"message"`
	Profile *Profile `json:"profile"`
}
