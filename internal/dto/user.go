package dto

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UserResponse is returned after login.
type UserResponse struct {
	Username string `json:"username"`
}
