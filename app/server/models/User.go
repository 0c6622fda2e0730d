package models

import "time"

type User struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	// Profile
	Username string `gorm:"column:username;size:64;uniqueIndex;not null"` // login name, globally unique, immutable after signup
	Name     string `gorm:"column:name"`                                  // display name
	Email    string `gorm:"column:email"`
	Age      int    `gorm:"column:age;not null;check:age >= 0"`
	IsAdmin  bool   `gorm:"column:is_admin;not null"` // admins can list and manage every user, others only themselves

	// Authentication
	Password string `gorm:"column:password;not null"` // argon2id hash (older rows may hold bcrypt)
}

// PublicUser is the only user representation written to responses.
type PublicUser struct {
	ID       uint   `json:"id"`
	Name     string `json:"nombre"`
	Username string `json:"username"`
	Email    string `json:"mail"`
	Age      int    `json:"edad"`
	IsAdmin  bool   `json:"es_admin"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Age:      u.Age,
		IsAdmin:  u.IsAdmin,
	}
}
