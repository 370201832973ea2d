package models

import "time"

type TrackStatus string

const (
	TrackStatusPending   TrackStatus = "pending"
	TrackStatusApproved  TrackStatus = "approved"
	TrackStatusPublished TrackStatus = "published"
	TrackStatusRejected  TrackStatus = "rejected"
)

func (s TrackStatus) Valid() bool {
	switch s {
	case TrackStatusPending, TrackStatusApproved, TrackStatusPublished, TrackStatusRejected:
		return true
	}
	return false
}

// Track is a submitted music entry. Votes is denormalized from the vote
// ledger; both are always mutated inside the same store update.
type Track struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Artist       string      `json:"artist"`
	ArtistWallet string      `json:"artistWallet"`
	Genre        string      `json:"genre"`
	VideoURL     string      `json:"videoUrl"`
	CoverURL     string      `json:"coverUrl"`
	Votes        int64       `json:"votes"`
	WeekNumber   int         `json:"weekNumber"`
	Status       TrackStatus `json:"status"`
	OnChainID    *int64      `json:"onChainId,omitempty"`
	SubmittedAt  time.Time   `json:"submittedAt"`
}
