package dto

import "time"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin student"`
}

type LoginResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	// RedirectTo is the dashboard path for the role, mirroring the web UI's
	// post-login redirect.
	RedirectTo string `json:"redirect_to"`
}

type RegisterRequest struct {
	Name          string `json:"name" binding:"required"`
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required,min=4"`
	DOB           string `json:"dob" binding:"required"` // YYYY-MM-DD
	Qualification string `json:"qualification" binding:"required"`
	Role          string `json:"role" binding:"required,oneof=admin student"`
	ClassID       *uint  `json:"class_id,omitempty"`
}

type UserResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	DOB           time.Time `json:"dob"`
	Qualification string    `json:"qualification"`
	Role          string    `json:"role"`
	ClassID       *uint     `json:"class_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
