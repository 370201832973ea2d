package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/service"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/logger"
)

// PublishScheduler runs the weekly publish flip shortly after each week
// boundary, so last week's approved tracks go live without an admin call.
type PublishScheduler struct {
	cron     *cron.Cron
	tracks   *service.TrackService
	cronExpr string
}

func NewPublishScheduler(tracks *service.TrackService, cronExpr string) *PublishScheduler {
	return &PublishScheduler{
		cron:     cron.New(cron.WithSeconds()),
		tracks:   tracks,
		cronExpr: cronExpr,
	}
}

func (s *PublishScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cronExpr, s.publishWeekly)
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Weekly publish scheduler started")
	return nil
}

func (s *PublishScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Weekly publish scheduler stopped")
}

func (s *PublishScheduler) publishWeekly() {
	published, err := s.tracks.PublishWeekly(context.Background())
	if err != nil {
		// Expected during week 1, when there is no completed week yet.
		logger.WithError(err).Warn("Scheduled weekly publish skipped")
		return
	}

	logger.WithFields(logrus.Fields{
		"published": len(published),
	}).Info("Scheduled weekly publish completed")
}
