package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Avatar    string `json:"avatar" db:"avatar"`
}

// User — хэш пароля наружу не отдаётся никогда
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
