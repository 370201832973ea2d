package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/store"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

type VoteRepository struct {
	store *store.Store
}

func NewVoteRepository(s *store.Store) *VoteRepository {
	return &VoteRepository{store: s}
}

// Cast records one vote and bumps the track's denormalized counter inside
// the same store update, so the counter can never drift from the ledger.
func (r *VoteRepository) Cast(ctx context.Context, trackID, voterAddress string) (*models.Vote, error) {
	var vote *models.Vote
	err := r.store.Update(func(doc *models.Document) error {
		var track *models.Track
		for i := range doc.Tracks {
			if doc.Tracks[i].ID == trackID {
				track = &doc.Tracks[i]
				break
			}
		}
		if track == nil {
			return apperr.Validation("track not found")
		}
		if track.Status != models.TrackStatusPublished {
			return apperr.Validation("track is not published")
		}

		for _, v := range doc.Votes {
			if v.TrackID == trackID && v.VoterAddress == voterAddress {
				return apperr.Duplicate("this address has already voted for this track")
			}
		}

		v := models.Vote{
			ID:           uuid.NewString(),
			TrackID:      trackID,
			VoterAddress: voterAddress,
			Status:       models.VoteStatusUnprocessed,
			WeekNumber:   track.WeekNumber,
			CreatedAt:    time.Now().UTC(),
		}
		doc.Votes = append(doc.Votes, v)
		track.Votes++
		vote = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vote, nil
}

// TallyUnprocessed groups unprocessed votes by the on-chain id of their
// track, counting only tracks that are published with an id assigned.
// Returns parallel slices in first-encounter order; both empty when there
// are no unprocessed votes.
func (r *VoteRepository) TallyUnprocessed(ctx context.Context) (trackIDs []int64, counts []int64, err error) {
	trackIDs = []int64{}
	counts = []int64{}
	err = r.store.View(func(doc *models.Document) error {
		onChain := map[string]int64{}
		for _, t := range doc.Tracks {
			if t.Status == models.TrackStatusPublished && t.OnChainID != nil {
				onChain[t.ID] = *t.OnChainID
			}
		}

		index := map[int64]int{}
		for _, v := range doc.Votes {
			if v.Status != models.VoteStatusUnprocessed {
				continue
			}
			id, ok := onChain[v.TrackID]
			if !ok {
				continue
			}
			if pos, seen := index[id]; seen {
				counts[pos]++
				continue
			}
			index[id] = len(trackIDs)
			trackIDs = append(trackIDs, id)
			counts = append(counts, 1)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return trackIDs, counts, nil
}

// ClearUnprocessed flips every unprocessed vote to processed and returns
// how many it touched.
func (r *VoteRepository) ClearUnprocessed(ctx context.Context) (int, error) {
	cleared := 0
	err := r.store.Update(func(doc *models.Document) error {
		for i := range doc.Votes {
			if doc.Votes[i].Status == models.VoteStatusUnprocessed {
				doc.Votes[i].Status = models.VoteStatusProcessed
				cleared++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return cleared, nil
}

func (r *VoteRepository) All(ctx context.Context) ([]models.Vote, error) {
	votes := []models.Vote{}
	err := r.store.View(func(doc *models.Document) error {
		votes = append(votes, doc.Votes...)
		return nil
	})
	return votes, err
}
