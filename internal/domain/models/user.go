package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	FullName   string    `db:"full_name" json:"fullName"`
	Username   string    `db:"username" json:"username"`
	Email      string    `db:"email" json:"email"`
	Password   []byte    `db:"password" json:"-"`
	Role       Role      `db:"role" json:"role"`
	AvatarURL  string    `db:"avatar_url" json:"avatarUrl"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	Address    string    `db:"address" json:"address"`
	City       string    `db:"city" json:"city"`
	State      string    `db:"state" json:"state"`
	Country    string    `db:"country" json:"country"`
	PostalCode string    `db:"postal_code" json:"postalCode"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
