package models

import "time"

// PasswordPlaceholder is the constant stored in every user's password field.
// Authentication is entirely magic-link based; no real credential is ever kept.
const PasswordPlaceholder = "magic-link-only"

type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
