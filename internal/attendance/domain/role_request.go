package domain

import "time"

// RoleRequestStatus tracks the lifecycle of an employee's request for the
// admin role. Rejections are persisted with their timestamp so the
// re-request cooldown can be enforced.
type RoleRequestStatus string

const (
	RoleRequestPending  RoleRequestStatus = "pending"
	RoleRequestApproved RoleRequestStatus = "approved"
	RoleRequestRejected RoleRequestStatus = "rejected"
)

// RejectionCooldown is how long a user must wait after a rejection before
// submitting another role-change request.
const RejectionCooldown = 24 * time.Hour

type RoleRequest struct {
	ID         string
	UserID     string
	Status     RoleRequestStatus
	ResolvedBy string     // admin user ID, empty while pending
	ResolvedAt *time.Time // nil while pending
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
