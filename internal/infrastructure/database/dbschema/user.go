package dbschema

import (
	"time"

	"github.com/janhq/chat-assistant/internal/domain/user"
)

type User struct {
	ID           string    `gorm:"type:varchar(64);primaryKey"`
	Name         string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	Role         string    `gorm:"type:varchar(16);not null"`
	Background   string    `gorm:"type:text;not null"`
	Gender       string    `gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func NewSchemaUser(u *user.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Background:   u.Background,
		Gender:       string(u.Gender),
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func (u *User) EtoD() *user.User {
	return &user.User{
		ID:           u.ID,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         user.Role(u.Role),
		Background:   u.Background,
		Gender:       user.Gender(u.Gender),
		CreatedAt:    u.CreatedAt.UTC(),
	}
}
