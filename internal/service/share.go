package service

import (
	"context"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/repository"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

type ShareService struct {
	shares *repository.ShareRepository
}

func NewShareService(shares *repository.ShareRepository) *ShareService {
	return &ShareService{shares: shares}
}

type ShareInput struct {
	TrackID  string
	UserID   string
	Platform string
	ProofURL string
}

func (s *ShareService) Submit(ctx context.Context, in ShareInput) (*models.Share, error) {
	if in.TrackID == "" {
		return nil, apperr.Validation("trackId is required")
	}
	return s.shares.CreateForTrack(ctx, in.TrackID, in.UserID, in.Platform, in.ProofURL)
}

// Verify sets a share's verification outcome; only verified and rejected
// are accepted.
func (s *ShareService) Verify(ctx context.Context, id string, status models.ShareStatus) (*models.Share, error) {
	if status != models.ShareStatusVerified && status != models.ShareStatusRejected {
		return nil, apperr.Validation("share status must be verified or rejected")
	}
	return s.shares.SetStatus(ctx, id, status)
}

func (s *ShareService) All(ctx context.Context) ([]models.Share, error) {
	return s.shares.All(ctx)
}
