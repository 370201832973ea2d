package models

import "time"

type VoteStatus string

const (
	VoteStatusUnprocessed VoteStatus = "unprocessed"
	VoteStatusProcessed   VoteStatus = "processed"
)

// Vote records one voter's vote for one track. At most one vote exists
// per (TrackID, VoterAddress) pair, regardless of status.
type Vote struct {
	ID           string     `json:"id"`
	TrackID      string     `json:"trackId"`
	VoterAddress string     `json:"voterAddress"`
	Status       VoteStatus `json:"status"`
	WeekNumber   int        `json:"weekNumber"`
	CreatedAt    time.Time  `json:"createdAt"`
}
