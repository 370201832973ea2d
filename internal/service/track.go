package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/blockchain"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/config"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/contest"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/ipfs"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/repository"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/logger"
)

const genreTopLimit = 50

// ChainPublisher is the slice of blockchain.Publisher the track service
// uses; nil when the deployment has no chain configured.
type ChainPublisher interface {
	RegisterBatch(ctx context.Context, batch blockchain.Batch) ([]blockchain.Registration, error)
	Genres(ctx context.Context) ([]string, error)
}

type TrackService struct {
	tracks    *repository.TrackRepository
	pinner    ipfs.Pinner
	publisher ChainPublisher
	cal       *contest.Calendar
	cfg       config.ContestConfig
	now       func() time.Time
}

func NewTrackService(
	tracks *repository.TrackRepository,
	pinner ipfs.Pinner,
	publisher ChainPublisher,
	cal *contest.Calendar,
	cfg config.ContestConfig,
) *TrackService {
	return &TrackService{
		tracks:    tracks,
		pinner:    pinner,
		publisher: publisher,
		cal:       cal,
		cfg:       cfg,
		now:       time.Now,
	}
}

type SubmitInput struct {
	Title        string
	Artist       string
	ArtistWallet string
	Genre        string
	VideoName    string
	Video        io.Reader
	CoverName    string
	Cover        io.Reader
}

// Submit validates a new entry, pins both media files, and stores the
// track as pending for the current contest week.
func (s *TrackService) Submit(ctx context.Context, in SubmitInput) (*models.Track, error) {
	if !strings.HasPrefix(in.ArtistWallet, "0x") {
		return nil, apperr.Validation("artist wallet address must start with 0x")
	}
	if in.Video == nil {
		return nil, apperr.Validation("video file is required")
	}
	if in.Cover == nil {
		return nil, apperr.Validation("cover image file is required")
	}

	now := s.now()
	if s.cfg.EnforceSubmissionWindow && !s.cal.SubmissionOpen(now) {
		return nil, apperr.Validation("submission window is closed for this week")
	}

	s.checkGenre(ctx, in.Genre)

	videoCID, err := s.pinner.Pin(ctx, in.VideoName, in.Video)
	if err != nil {
		return nil, apperr.Storage("failed to upload video file", err)
	}
	coverCID, err := s.pinner.Pin(ctx, in.CoverName, in.Cover)
	if err != nil {
		return nil, apperr.Storage("failed to upload cover image", err)
	}

	track := &models.Track{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Artist:       in.Artist,
		ArtistWallet: in.ArtistWallet,
		Genre:        in.Genre,
		VideoURL:     s.pinner.GatewayURL(videoCID),
		CoverURL:     s.pinner.GatewayURL(coverCID),
		Votes:        0,
		WeekNumber:   s.cal.WeekNumber(now),
		Status:       models.TrackStatusPending,
		SubmittedAt:  now.UTC(),
	}

	if err := s.tracks.Create(ctx, track); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"track_id": track.ID,
		"artist":   track.Artist,
		"week":     track.WeekNumber,
	}).Info("Track submitted")

	return track, nil
}

// checkGenre compares the submitted genre against the on-chain allow-list.
// The check is advisory: mismatches and read failures only log.
func (s *TrackService) checkGenre(ctx context.Context, genre string) {
	if s.publisher == nil {
		return
	}
	genres, err := s.publisher.Genres(ctx)
	if err != nil {
		logger.WithError(err).Warn("Could not read genre allow-list, accepting submission anyway")
		return
	}
	for _, g := range genres {
		if strings.EqualFold(g, genre) {
			return
		}
	}
	logger.WithFields(logrus.Fields{"genre": genre}).Warn("Submitted genre is not on the allow-list")
}

func (s *TrackService) Approve(ctx context.Context, id string) (*models.Track, error) {
	return s.tracks.UpdateStatus(ctx, id, models.TrackStatusApproved)
}

// UpdateStatus is the generic status transition behind the admin PATCH
// endpoint; rejections arrive through here.
func (s *TrackService) UpdateStatus(ctx context.Context, id string, status models.TrackStatus) (*models.Track, error) {
	if !status.Valid() {
		return nil, apperr.Validation("invalid track status")
	}
	return s.tracks.UpdateStatus(ctx, id, status)
}

func (s *TrackService) Delete(ctx context.Context, id string) error {
	return s.tracks.Delete(ctx, id)
}

func (s *TrackService) All(ctx context.Context) ([]models.Track, error) {
	return s.tracks.All(ctx)
}

// PublishWeekly flips last week's approved tracks to published. This is a
// local-only transition; on-chain registration happens separately.
func (s *TrackService) PublishWeekly(ctx context.Context) ([]models.Track, error) {
	lastWeek := s.cal.WeekNumber(s.now()) - 1
	if lastWeek <= 0 {
		return nil, apperr.Validation("no completed contest week to publish yet")
	}
	published, err := s.tracks.PublishWeek(ctx, lastWeek)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"week":      lastWeek,
		"published": len(published),
	}).Info("Weekly uploads published")
	return published, nil
}

// PublishAllApproved registers every approved track on-chain and attaches
// the assigned ids, correlating the emitted events by video URL.
func (s *TrackService) PublishAllApproved(ctx context.Context) ([]models.Track, error) {
	approved, err := s.tracks.ByStatus(ctx, models.TrackStatusApproved)
	if err != nil {
		return nil, err
	}
	if len(approved) == 0 {
		return []models.Track{}, nil
	}
	if s.publisher == nil {
		return nil, apperr.Chain("chain publisher is not configured", nil)
	}

	batch := blockchain.Batch{
		Wallets:   make([]common.Address, 0, len(approved)),
		Artists:   make([]string, 0, len(approved)),
		Titles:    make([]string, 0, len(approved)),
		Genres:    make([]string, 0, len(approved)),
		VideoURLs: make([]string, 0, len(approved)),
		CoverURLs: make([]string, 0, len(approved)),
	}
	for _, t := range approved {
		batch.Wallets = append(batch.Wallets, common.HexToAddress(t.ArtistWallet))
		batch.Artists = append(batch.Artists, t.Artist)
		batch.Titles = append(batch.Titles, t.Title)
		batch.Genres = append(batch.Genres, t.Genre)
		batch.VideoURLs = append(batch.VideoURLs, t.VideoURL)
		batch.CoverURLs = append(batch.CoverURLs, t.CoverURL)
	}

	registrations, err := s.publisher.RegisterBatch(ctx, batch)
	if err != nil {
		return nil, err
	}

	byVideoURL := make(map[string]int64, len(registrations))
	for _, reg := range registrations {
		byVideoURL[reg.VideoURL] = reg.TrackID
	}

	published, err := s.tracks.AssignOnChainIDs(ctx, byVideoURL)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"approved":  len(approved),
		"published": len(published),
	}).Info("Approved tracks registered on-chain")
	return published, nil
}

func (s *TrackService) Published(ctx context.Context) ([]models.Track, error) {
	return s.tracks.ByStatus(ctx, models.TrackStatusPublished)
}

// TopByGenre returns the highest-voted published track per genre. Strict
// greater-than comparison keeps the first-encountered track on ties.
func (s *TrackService) TopByGenre(ctx context.Context) (map[string]models.Track, error) {
	published, err := s.Published(ctx)
	if err != nil {
		return nil, err
	}
	top := map[string]models.Track{}
	for _, t := range published {
		best, ok := top[t.Genre]
		if !ok || t.Votes > best.Votes {
			top[t.Genre] = t
		}
	}
	return top, nil
}

// OverallWinner returns the single highest-voted published track, or nil
// when nothing is published. First maximal element wins ties.
func (s *TrackService) OverallWinner(ctx context.Context) (*models.Track, error) {
	published, err := s.Published(ctx)
	if err != nil {
		return nil, err
	}
	var winner *models.Track
	for i := range published {
		if winner == nil || published[i].Votes > winner.Votes {
			winner = &published[i]
		}
	}
	return winner, nil
}

// TopTracksForGenre returns up to 50 tracks of the genre, matched
// case-insensitively, ordered by votes descending with original order
// preserved on ties.
func (s *TrackService) TopTracksForGenre(ctx context.Context, genre string) ([]models.Track, error) {
	all, err := s.tracks.All(ctx)
	if err != nil {
		return nil, err
	}
	matched := []models.Track{}
	for _, t := range all {
		if strings.EqualFold(t.Genre, genre) {
			matched = append(matched, t)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Votes > matched[j].Votes
	})
	if len(matched) > genreTopLimit {
		matched = matched[:genreTopLimit]
	}
	return matched, nil
}

func (s *TrackService) Stats(ctx context.Context) (*models.Stats, error) {
	counts, err := s.tracks.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return &models.Stats{
		TotalSubmissions: total,
		Pending:          counts[models.TrackStatusPending],
		Approved:         counts[models.TrackStatusApproved],
		Rejected:         counts[models.TrackStatusRejected],
	}, nil
}
