package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/store"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

type ShareRepository struct {
	store *store.Store
}

func NewShareRepository(s *store.Store) *ShareRepository {
	return &ShareRepository{store: s}
}

// CreateForTrack records a share claim, inheriting the referenced track's
// contest week.
func (r *ShareRepository) CreateForTrack(ctx context.Context, trackID, userID, platform, proofURL string) (*models.Share, error) {
	var share *models.Share
	err := r.store.Update(func(doc *models.Document) error {
		var track *models.Track
		for i := range doc.Tracks {
			if doc.Tracks[i].ID == trackID {
				track = &doc.Tracks[i]
				break
			}
		}
		if track == nil {
			return apperr.NotFound("track not found")
		}

		s := models.Share{
			ID:         uuid.NewString(),
			TrackID:    trackID,
			UserID:     userID,
			Platform:   platform,
			ProofURL:   proofURL,
			Status:     models.ShareStatusPending,
			WeekNumber: track.WeekNumber,
			CreatedAt:  time.Now().UTC(),
		}
		doc.Shares = append(doc.Shares, s)
		share = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return share, nil
}

func (r *ShareRepository) SetStatus(ctx context.Context, id string, status models.ShareStatus) (*models.Share, error) {
	var updated *models.Share
	err := r.store.Update(func(doc *models.Document) error {
		for i := range doc.Shares {
			if doc.Shares[i].ID == id {
				doc.Shares[i].Status = status
				s := doc.Shares[i]
				updated = &s
				return nil
			}
		}
		return apperr.NotFound("share not found")
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *ShareRepository) All(ctx context.Context) ([]models.Share, error) {
	shares := []models.Share{}
	err := r.store.View(func(doc *models.Document) error {
		shares = append(shares, doc.Shares...)
		return nil
	})
	return shares, err
}
