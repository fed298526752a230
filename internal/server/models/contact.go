package models

import "time"

// ContactSetting is one key/value pair shown on the public contact page.
type ContactSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
