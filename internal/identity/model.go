package identity

import "time"

// Role is the closed set of trust levels an identity can hold.
type Role string

const (
	RoleUser    Role = "user"
	RolePartner Role = "partner"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is a member of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePartner, RoleAdmin:
		return true
	default:
		return false
	}
}

// VerificationStatus tracks whether the NIN authority has confirmed an identity.
type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusVerified VerificationStatus = "verified"
	StatusRejected VerificationStatus = "rejected"
)

// NINLength is the exact length every national identity number must have.
const NINLength = 11

// Identity represents a registered person and their exclusion state.
type Identity struct {
	ID                 string
	FullName           string
	Email              string
	Phone              string
	CredentialHash     []byte
	NIN                string
	Role               Role
	VerificationStatus VerificationStatus
	IsBlocked          bool
	BlockedUntil       *time.Time
	BlockReason        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsCurrentlyExcluded reports whether the identity is excluded at the given
// instant. A lapsed block stays in storage (IsBlocked remains true) but no
// longer counts as an active exclusion; expiry is evaluated here, at read
// time, never by a background sweep.
func IsCurrentlyExcluded(rec Identity, now time.Time) bool {
	return rec.IsBlocked && rec.BlockedUntil != nil && rec.BlockedUntil.After(now)
}

// Credentials carries a signin request.
type Credentials struct {
	Email    string
	Password string
}

// RegisterInput carries the fields required to create an identity.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
	NIN      string
}
