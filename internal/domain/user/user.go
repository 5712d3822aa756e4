package user

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == "" || g == GenderMale || g == GenderFemale
}

type User struct {
	ID           string
	Name         string
	PasswordHash string
	Role         Role
	Background   string
	Gender       Gender
	CreatedAt    time.Time
}

// UserRepository persists users. Find methods return (nil, nil) when nothing matches.
type UserRepository interface {
	// Create inserts u and fails with CONFLICT when the name is taken.
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByName(ctx context.Context, name string) (*User, error)
	UpdateBackground(ctx context.Context, id, background string) (*User, error)
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	IssueToken(userID, name string) (string, error)
}

type AuthResult struct {
	Token string
	User  *User
}
