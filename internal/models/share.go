package models

import "time"

type ShareStatus string

const (
	ShareStatusPending  ShareStatus = "pending"
	ShareStatusVerified ShareStatus = "verified"
	ShareStatusRejected ShareStatus = "rejected"
)

func (s ShareStatus) Valid() bool {
	switch s {
	case ShareStatusPending, ShareStatusVerified, ShareStatusRejected:
		return true
	}
	return false
}

// Share is a user's claim of having shared a track externally.
// WeekNumber is inherited from the referenced track at creation time.
type Share struct {
	ID         string      `json:"id"`
	TrackID    string      `json:"trackId"`
	UserID     string      `json:"userId"`
	Platform   string      `json:"platform"`
	ProofURL   string      `json:"proofUrl"`
	Status     ShareStatus `json:"status"`
	WeekNumber int         `json:"weekNumber"`
	CreatedAt  time.Time   `json:"createdAt"`
}
