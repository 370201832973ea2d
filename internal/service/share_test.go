package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

func TestShareSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	track, err := f.tracks.Submit(ctx, submitInput("T1"))
	require.NoError(t, err)

	share, err := f.shares.Submit(ctx, ShareInput{
		TrackID:  track.ID,
		UserID:   "user-1",
		Platform: "twitter",
		ProofURL: "https://twitter.com/user-1/status/1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusPending, share.Status)
	assert.Equal(t, track.WeekNumber, share.WeekNumber, "share inherits the track's week")
}

func TestShareSubmit_MissingTrack(t *testing.T) {
	f := newFixture(t)

	_, err := f.shares.Submit(context.Background(), ShareInput{TrackID: "missing", UserID: "u"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestShareVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	track, err := f.tracks.Submit(ctx, submitInput("T1"))
	require.NoError(t, err)
	share, err := f.shares.Submit(ctx, ShareInput{TrackID: track.ID, UserID: "u", Platform: "x"})
	require.NoError(t, err)

	verified, err := f.shares.Verify(ctx, share.ID, models.ShareStatusVerified)
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusVerified, verified.Status)

	_, err = f.shares.Verify(ctx, share.ID, models.ShareStatusPending)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.shares.Verify(ctx, "missing", models.ShareStatusVerified)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
