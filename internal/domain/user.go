package domain

import "time"

type MembershipStatus string

const (
	MembershipStatusNone      MembershipStatus = "NONE"
	MembershipStatusRequested MembershipStatus = "REQUESTED"
	MembershipStatusVerified  MembershipStatus = "VERIFIED"
	MembershipStatusRejected  MembershipStatus = "REJECTED"
)

type DisabledReason string

const (
	DisabledReasonMembershipRequired DisabledReason = "MEMBERSHIP_REQUIRED"
)

// User carries the membership facet this subsystem owns. Registration,
// credentials and profile data live in the surrounding platform; this
// service only reads identity and mutates membership state.
type User struct {
	ID        int32  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	MembershipStatus  MembershipStatus `json:"membership_status"`
	ChurchID          *int32           `json:"church_id,omitempty"` // set only while VERIFIED
	VerifiedAt        *time.Time       `json:"verified_at,omitempty"`
	JoinRequestedAt   *time.Time       `json:"join_requested_at,omitempty"`
	LastStatusChange  time.Time        `json:"last_status_change_at"`
	EnforcementExempt bool             `json:"enforcement_exempt"`
	AccountActive     bool             `json:"account_active"`
	DisabledReason    *DisabledReason  `json:"disabled_reason,omitempty"`
	WarningSentAt     *time.Time       `json:"warning_sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// FullName is used for notification template parameters.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsVerifiedMemberOf reports whether the user currently holds verified
// membership in the given church.
func (u *User) IsVerifiedMemberOf(churchID int32) bool {
	return u.MembershipStatus == MembershipStatusVerified &&
		u.ChurchID != nil && *u.ChurchID == churchID
}
