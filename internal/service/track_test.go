package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/blockchain"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/config"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/contest"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/repository"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/store"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

type stubPinner struct {
	pins int
}

func (p *stubPinner) Pin(ctx context.Context, name string, r io.Reader) (string, error) {
	p.pins++
	return "Qm" + name, nil
}

func (p *stubPinner) GatewayURL(cid string) string {
	return "https://gw.test/ipfs/" + cid
}

type stubPublisher struct {
	registrations []blockchain.Registration
	err           error
	gotBatch      *blockchain.Batch
}

func (p *stubPublisher) RegisterBatch(ctx context.Context, batch blockchain.Batch) ([]blockchain.Registration, error) {
	p.gotBatch = &batch
	if p.err != nil {
		return nil, p.err
	}
	return p.registrations, nil
}

func (p *stubPublisher) Genres(ctx context.Context) ([]string, error) {
	return []string{"Pop", "Rap", "House"}, nil
}

type fixture struct {
	tracks    *TrackService
	votes     *VoteService
	shares    *ShareService
	pinner    *stubPinner
	publisher *stubPublisher
	trackRepo *repository.TrackRepository
}

// recentSundayCalendar anchors week 1 to the Sunday starting the current
// real week, so time.Now always falls in week 1.
func recentSundayCalendar(t *testing.T) *contest.Calendar {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Now().In(loc)
	sunday := now.AddDate(0, 0, -int(now.Weekday()))
	cal, err := contest.NewCalendar(sunday.Format("2006-01-02"), "America/New_York")
	require.NoError(t, err)
	return cal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)

	cal := recentSundayCalendar(t)
	cfg := config.ContestConfig{}

	trackRepo := repository.NewTrackRepository(s)
	voteRepo := repository.NewVoteRepository(s)
	shareRepo := repository.NewShareRepository(s)

	pinner := &stubPinner{}
	publisher := &stubPublisher{}

	return &fixture{
		tracks:    NewTrackService(trackRepo, pinner, publisher, cal, cfg),
		votes:     NewVoteService(voteRepo, trackRepo, cal, cfg),
		shares:    NewShareService(shareRepo),
		pinner:    pinner,
		publisher: publisher,
		trackRepo: trackRepo,
	}
}

func submitInput(title string) SubmitInput {
	return SubmitInput{
		Title:        title,
		Artist:       "DJ Test",
		ArtistWallet: "0xABCDEF0123456789abcdef0123456789ABCDEF01",
		Genre:        "Pop",
		VideoName:    title + ".mp4",
		Video:        strings.NewReader("video"),
		CoverName:    title + ".png",
		Cover:        strings.NewReader("cover"),
	}
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)

	track, err := f.tracks.Submit(context.Background(), submitInput("T1"))
	require.NoError(t, err)

	assert.Equal(t, models.TrackStatusPending, track.Status)
	assert.Equal(t, int64(0), track.Votes)
	assert.Equal(t, 1, track.WeekNumber)
	assert.Equal(t, "https://gw.test/ipfs/QmT1.mp4", track.VideoURL)
	assert.Equal(t, "https://gw.test/ipfs/QmT1.png", track.CoverURL)
	assert.Equal(t, 2, f.pinner.pins)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)

	in := submitInput("T1")
	in.ArtistWallet = "abc123"
	_, err := f.tracks.Submit(context.Background(), in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	in = submitInput("T1")
	in.Video = nil
	_, err = f.tracks.Submit(context.Background(), in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	in = submitInput("T1")
	in.Cover = nil
	_, err = f.tracks.Submit(context.Background(), in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.Zero(t, f.pinner.pins, "nothing may be pinned for invalid submissions")
}

// Covers the full lifecycle: submit, approve, on-chain publish with id 7,
// vote, tally, clear.
func TestLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	track, err := f.tracks.Submit(ctx, submitInput("T1"))
	require.NoError(t, err)
	assert.Equal(t, models.TrackStatusPending, track.Status)

	approved, err := f.tracks.Approve(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TrackStatusApproved, approved.Status)

	f.publisher.registrations = []blockchain.Registration{
		{TrackID: 7, VideoURL: track.VideoURL},
	}
	published, err := f.tracks.PublishAllApproved(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	require.NotNil(t, published[0].OnChainID)
	assert.Equal(t, int64(7), *published[0].OnChainID)
	assert.Equal(t, models.TrackStatusPublished, published[0].Status)

	require.NotNil(t, f.publisher.gotBatch)
	assert.Equal(t, []string{"T1"}, f.publisher.gotBatch.Titles)
	assert.Equal(t, []string{track.VideoURL}, f.publisher.gotBatch.VideoURLs)

	_, err = f.votes.Cast(ctx, track.ID, "0xDEF0000000000000000000000000000000000001")
	require.NoError(t, err)

	got, err := f.trackRepo.FindByID(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Votes)

	ids, counts, err := f.votes.Tally(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)
	assert.Equal(t, []int64{1}, counts)

	cleared, err := f.votes.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)

	ids, counts, err = f.votes.Tally(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, counts)
}

func TestPublishAllApproved_ChainFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	track, err := f.tracks.Submit(ctx, submitInput("T1"))
	require.NoError(t, err)
	_, err = f.tracks.Approve(ctx, track.ID)
	require.NoError(t, err)

	f.publisher.err = apperr.Chain("execution reverted", fmt.Errorf("out of gas"))
	_, err = f.tracks.PublishAllApproved(ctx)
	require.Error(t, err)
	assert.Equal(t, apperr.KindChain, apperr.KindOf(err))

	got, err := f.trackRepo.FindByID(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TrackStatusApproved, got.Status, "failed publish must not flip status")
}

func TestPublishAllApproved_NoApprovedTracks(t *testing.T) {
	f := newFixture(t)

	published, err := f.tracks.PublishAllApproved(context.Background())
	require.NoError(t, err)
	assert.Empty(t, published)
	assert.Nil(t, f.publisher.gotBatch, "empty batch must not hit the chain")
}

func TestPublishWeekly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Week 1 just started, so there is no completed week yet.
	_, err := f.tracks.PublishWeekly(ctx)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	track, err := f.tracks.Submit(ctx, submitInput("T1"))
	require.NoError(t, err)
	_, err = f.tracks.Approve(ctx, track.ID)
	require.NoError(t, err)

	// Jump the clock one week ahead; last week becomes week 1.
	f.tracks.now = func() time.Time { return time.Now().AddDate(0, 0, 7) }

	published, err := f.tracks.PublishWeekly(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, models.TrackStatusPublished, published[0].Status)
	assert.Nil(t, published[0].OnChainID, "weekly publish is local-only")
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	track, err := f.tracks.Submit(ctx, submitInput("T1"))
	require.NoError(t, err)

	rejected, err := f.tracks.UpdateStatus(ctx, track.ID, models.TrackStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.TrackStatusRejected, rejected.Status)

	_, err = f.tracks.UpdateStatus(ctx, track.ID, "archived")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.tracks.UpdateStatus(ctx, "missing", models.TrackStatusApproved)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	track, err := f.tracks.Submit(ctx, submitInput("T1"))
	require.NoError(t, err)

	err = f.tracks.Delete(ctx, "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	all, err := f.tracks.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "failed delete must not change the track count")

	require.NoError(t, f.tracks.Delete(ctx, track.ID))
	all, err = f.tracks.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.tracks.Submit(ctx, submitInput(fmt.Sprintf("T%d", i)))
		require.NoError(t, err)
	}
	all, err := f.tracks.All(ctx)
	require.NoError(t, err)
	_, err = f.tracks.Approve(ctx, all[0].ID)
	require.NoError(t, err)
	_, err = f.tracks.UpdateStatus(ctx, all[1].ID, models.TrackStatusRejected)
	require.NoError(t, err)

	stats, err := f.tracks.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSubmissions)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 1, stats.Rejected)
}
