package models

import "time"

// DeliveryPartner is a courier who signs in with their phone number.
type DeliveryPartner struct {
	ID           int64
	Name         string
	Phone        string
	Email        string
	PasswordHash string
	VehicleType  string
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
