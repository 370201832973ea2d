package repository

import (
	"context"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/store"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

type TrackRepository struct {
	store *store.Store
}

func NewTrackRepository(s *store.Store) *TrackRepository {
	return &TrackRepository{store: s}
}

func (r *TrackRepository) Create(ctx context.Context, track *models.Track) error {
	return r.store.Update(func(doc *models.Document) error {
		doc.Tracks = append(doc.Tracks, *track)
		return nil
	})
}

func (r *TrackRepository) FindByID(ctx context.Context, id string) (*models.Track, error) {
	var found *models.Track
	err := r.store.View(func(doc *models.Document) error {
		for i := range doc.Tracks {
			if doc.Tracks[i].ID == id {
				t := doc.Tracks[i]
				found = &t
				return nil
			}
		}
		return apperr.NotFound("track not found")
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *TrackRepository) All(ctx context.Context) ([]models.Track, error) {
	var tracks []models.Track
	err := r.store.View(func(doc *models.Document) error {
		tracks = append([]models.Track{}, doc.Tracks...)
		return nil
	})
	return tracks, err
}

func (r *TrackRepository) ByStatus(ctx context.Context, status models.TrackStatus) ([]models.Track, error) {
	tracks := []models.Track{}
	err := r.store.View(func(doc *models.Document) error {
		for _, t := range doc.Tracks {
			if t.Status == status {
				tracks = append(tracks, t)
			}
		}
		return nil
	})
	return tracks, err
}

// UpdateStatus sets the lifecycle status of one track and returns the
// updated record.
func (r *TrackRepository) UpdateStatus(ctx context.Context, id string, status models.TrackStatus) (*models.Track, error) {
	var updated *models.Track
	err := r.store.Update(func(doc *models.Document) error {
		for i := range doc.Tracks {
			if doc.Tracks[i].ID == id {
				doc.Tracks[i].Status = status
				t := doc.Tracks[i]
				updated = &t
				return nil
			}
		}
		return apperr.NotFound("track not found")
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *TrackRepository) Delete(ctx context.Context, id string) error {
	return r.store.Update(func(doc *models.Document) error {
		for i := range doc.Tracks {
			if doc.Tracks[i].ID == id {
				doc.Tracks = append(doc.Tracks[:i], doc.Tracks[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("track not found")
	})
}

// PublishWeek flips every approved track of the given week to published
// without touching the chain. Returns the tracks it flipped.
func (r *TrackRepository) PublishWeek(ctx context.Context, week int) ([]models.Track, error) {
	published := []models.Track{}
	err := r.store.Update(func(doc *models.Document) error {
		for i := range doc.Tracks {
			if doc.Tracks[i].WeekNumber == week && doc.Tracks[i].Status == models.TrackStatusApproved {
				doc.Tracks[i].Status = models.TrackStatusPublished
				published = append(published, doc.Tracks[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return published, nil
}

// AssignOnChainIDs marks tracks as published and attaches their on-chain
// ids, correlating by exact video URL as the chain events do.
func (r *TrackRepository) AssignOnChainIDs(ctx context.Context, byVideoURL map[string]int64) ([]models.Track, error) {
	published := []models.Track{}
	err := r.store.Update(func(doc *models.Document) error {
		for i := range doc.Tracks {
			id, ok := byVideoURL[doc.Tracks[i].VideoURL]
			if !ok {
				continue
			}
			onChainID := id
			doc.Tracks[i].OnChainID = &onChainID
			doc.Tracks[i].Status = models.TrackStatusPublished
			published = append(published, doc.Tracks[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return published, nil
}

func (r *TrackRepository) CountByStatus(ctx context.Context) (map[models.TrackStatus]int, error) {
	counts := map[models.TrackStatus]int{}
	err := r.store.View(func(doc *models.Document) error {
		for _, t := range doc.Tracks {
			counts[t.Status]++
		}
		return nil
	})
	return counts, err
}
