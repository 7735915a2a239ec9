package domain

// User is an account allowed to sign in when the session policy is enabled.
type User struct {
	Username     string
	PasswordHash string
}
