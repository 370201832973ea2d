package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/config"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/contest"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/repository"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/logger"
)

type VoteService struct {
	votes  *repository.VoteRepository
	tracks *repository.TrackRepository
	cal    *contest.Calendar
	cfg    config.ContestConfig
	now    func() time.Time
}

func NewVoteService(
	votes *repository.VoteRepository,
	tracks *repository.TrackRepository,
	cal *contest.Calendar,
	cfg config.ContestConfig,
) *VoteService {
	return &VoteService{
		votes:  votes,
		tracks: tracks,
		cal:    cal,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Cast records a vote for a published track. One vote per (track, voter)
// pair, enforced against the ledger regardless of vote status.
func (s *VoteService) Cast(ctx context.Context, trackID, voterAddress string) (*models.Vote, error) {
	if s.cfg.EnforceVotingWindow {
		track, err := s.tracks.FindByID(ctx, trackID)
		if err == nil && !s.cal.VotingOpen(track.WeekNumber, s.now()) {
			return nil, apperr.Validation("voting period is over for this track")
		}
		// A missing track falls through; Cast reports it as a
		// validation error below.
	}

	vote, err := s.votes.Cast(ctx, trackID, voterAddress)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"track_id": trackID,
		"voter":    voterAddress,
	}).Info("Vote cast")
	return vote, nil
}

// Tally groups the unprocessed votes by on-chain track id for batch
// submission to the contract.
func (s *VoteService) Tally(ctx context.Context) (trackIDs []int64, counts []int64, err error) {
	return s.votes.TallyUnprocessed(ctx)
}

// Clear marks every unprocessed vote processed. Callers must only invoke
// this after the preceding tally landed on-chain; nothing here checks.
func (s *VoteService) Clear(ctx context.Context) (int, error) {
	cleared, err := s.votes.ClearUnprocessed(ctx)
	if err != nil {
		return 0, err
	}
	logger.WithFields(logrus.Fields{"cleared": cleared}).Info("Unprocessed votes cleared")
	return cleared, nil
}

func (s *VoteService) All(ctx context.Context) ([]models.Vote, error) {
	return s.votes.All(ctx)
}
