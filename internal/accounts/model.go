package accounts

import (
	"time"

	"pressgate/internal/auth"
)

type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public is the projection returned to API clients. The password hash
// never leaves the store layer in any serialized form.
type Public struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}

func (a *Account) Public() Public {
	return Public{ID: a.ID, Username: a.Username, Role: a.Role}
}
