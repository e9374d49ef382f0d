package domain

import "time"

// Invite grants the admin role to one email address at registration time.
// Only the token fingerprint is stored; the raw token travels out of band.
type Invite struct {
	ID        string
	TokenHash string
	Email     string // the address the invite is bound to
	CreatedBy string
	ExpiresAt time.Time
	Used      bool
	UsedBy    string // empty until redeemed
	CreatedAt time.Time
	UpdatedAt time.Time
}
