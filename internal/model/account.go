package model

import "time"

// Account is the identity a session signed in with.
//
// It exists only for display (the dashboard greets the user by name). No
// credential is ever checked against it, and it is dropped with the session.
// PasswordHash is a bcrypt hash; plaintext passwords are never kept.
type Account struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
