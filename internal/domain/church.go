package domain

import "time"

// DefaultMinVerifications is the quorum applied when a church has no
// explicit setting.
const DefaultMinVerifications = 3

type Church struct {
	ID                       int32     `json:"id"`
	Name                     string    `json:"name"`
	Address                  string    `json:"address"`
	City                     string    `json:"city"`
	State                    string    `json:"state"`
	LeadContactID            int32     `json:"lead_contact_id"`
	MinVerificationsRequired int32     `json:"min_verifications_required"`
	CreatedAt                time.Time `json:"created_at"`
}
