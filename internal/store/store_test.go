package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
)

func TestLoad_MissingFileYieldsEmptyDocument(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	doc, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Tracks)
	assert.Empty(t, doc.Shares)
	assert.Empty(t, doc.Votes)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	doc := &models.Document{
		Tracks: []models.Track{{
			ID:          "t1",
			Title:       "Midnight Run",
			Artist:      "DJ Test",
			Genre:       "House",
			Status:      models.TrackStatusPending,
			WeekNumber:  3,
			SubmittedAt: time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC),
		}},
	}
	require.NoError(t, s.Save(doc))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got.Tracks, 1)
	assert.Equal(t, "Midnight Run", got.Tracks[0].Title)
	assert.NotNil(t, got.Shares)
	assert.NotNil(t, got.Votes)
}

func TestLoad_DefaultsMissingLists(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	// A document written by an older version may only carry tracks.
	raw := `{"tracks":[{"id":"t1","status":"pending"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db.json"), []byte(raw), 0o644))

	doc, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, doc.Tracks, 1)
	assert.NotNil(t, doc.Shares)
	assert.NotNil(t, doc.Votes)
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "db.json"), []byte("{not json"), 0o644))

	_, err = s.Load()
	require.Error(t, err)
}

func TestUpdate_DoesNotPersistOnError(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	err = s.Update(func(doc *models.Document) error {
		doc.Tracks = append(doc.Tracks, models.Track{ID: "t1"})
		return fmt.Errorf("changed my mind")
	})
	require.Error(t, err)

	doc, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Tracks)
}

func TestUpdate_SerializesConcurrentWriters(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.Update(func(doc *models.Document) error {
				doc.Votes = append(doc.Votes, models.Vote{
					ID:           fmt.Sprintf("v%d", i),
					TrackID:      "t1",
					VoterAddress: fmt.Sprintf("0x%040d", i),
					Status:       models.VoteStatusUnprocessed,
				})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	doc, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, doc.Votes, writers, "every concurrent append must survive")
}

func TestSave_FileIsValidJSON(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(&models.Document{}))

	data, err := os.ReadFile(filepath.Join(dir, "db.json"))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "tracks")
	assert.Contains(t, raw, "shares")
	assert.Contains(t, raw, "votes")
}
