package models

// UserRecord is a persisted row of the users table.
type UserRecord struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
	IsAdmin      bool   `json:"-"`
}

// Public returns the client-facing shape of the record.
func (r UserRecord) Public() User {
	return User{ID: r.ID, Username: r.Username}
}

// User is the only user shape that leaves the API.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// UserCreate is the input for admin-driven account creation.
type UserCreate struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

const TokenTypeBearer = "bearer"

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenData is the identity carried inside an access token.
// A nil Username means the token did not resolve to anyone.
type TokenData struct {
	Username *string `json:"username,omitempty"`
}

// Resolved reports whether the token named a user.
func (d TokenData) Resolved() bool {
	return d.Username != nil && *d.Username != ""
}
