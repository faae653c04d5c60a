package account

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrMissingFields      = errors.New("please fill in all fields")
)

// User is one stored account. Password holds a bcrypt hash.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CreatedAt string `json:"createdAt"`
}
