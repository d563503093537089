// Package models defines server-side data models persisted in the database.
package models

// User is an account owning zero or more analyses.
type User struct {
	ID           int64
	UserName     string
	PasswordHash string
}
