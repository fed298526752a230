// Package models defines the records persisted by the server.
package models

import "time"

// Admin is a back-office operator.
type Admin struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
