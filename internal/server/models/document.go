package models

import "time"

// Document describes a file a delivery partner uploaded to object storage.
// ID is a server-assigned uuid; StorageKey is the object key in the bucket.
type Document struct {
	ID         string    `json:"id"`
	PartnerID  int64     `json:"partner_id"`
	Kind       string    `json:"kind"`
	StorageKey string    `json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
}

// Document kinds accepted from partners.
const (
	DocumentDrivingLicence      = "driving_licence"
	DocumentVehicleRegistration = "vehicle_registration"
	DocumentIdentityProof       = "identity_proof"
)

// DocumentUploadTask tells the partner where to PUT the file.
type DocumentUploadTask struct {
	Document  *Document `json:"document"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
