package models

import "strings"

// User is kept for future account support. No route reads or writes users yet.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt hash
}

type InsertUser struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (u *InsertUser) Validate() error {
	u.Username = strings.TrimSpace(u.Username)
	return check(u)
}
