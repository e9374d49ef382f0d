package domain

import "time"

type User struct {
	ID            string
	Email         string // unique, lower-cased at registration
	Name          string
	Department    string
	PasswordHash  string // argon2id encoded
	Role          Role
	Geofence      *Geofence // nil until an admin assigns one
	Notifications NotificationSettings
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NotificationSettings is the per-user notification toggle state. Delivery
// is handled by the mobile client; the service only persists the choice.
type NotificationSettings struct {
	Enabled bool
}
