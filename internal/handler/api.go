package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/config"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/service"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/logger"
)

type API struct {
	tracks *service.TrackService
	votes  *service.VoteService
	shares *service.ShareService
}

func NewAPI(tracks *service.TrackService, votes *service.VoteService, shares *service.ShareService) *API {
	return &API{tracks: tracks, votes: votes, shares: shares}
}

// Router builds the gin engine with all routes registered.
func (a *API) Router(corsCfg config.CORSConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsCfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.POST("/upload", a.uploadTrack)
	r.GET("/tracks", a.listPublished)
	r.GET("/tracks/top-by-genre", a.topByGenre)
	r.GET("/tracks/overall-winner", a.overallWinner)
	r.GET("/genre/:genreName", a.topForGenre)

	r.POST("/share", a.submitShare)
	r.POST("/vote", a.castVote)
	r.GET("/votes/tally", a.tallyVotes)
	r.POST("/votes/clear", a.clearVotes)

	admin := r.Group("/admin")
	admin.GET("/submissions", a.listSubmissions)
	admin.GET("/shares", a.listShares)
	admin.GET("/votes", a.listVotes)
	admin.POST("/approve/:id", a.approveTrack)
	admin.POST("/publish-weekly-uploads", a.publishWeekly)
	admin.POST("/publish-all-approved", a.publishAllApproved)
	admin.POST("/verify-share/:id", a.verifyShare)

	r.PATCH("/submissions/:id", a.updateTrackStatus)
	r.DELETE("/submissions/:id", a.deleteTrack)
	r.GET("/stats", a.stats)
	r.GET("/health", handleHealth)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("Request handled")
	}
}

// respondError maps the error taxonomy onto the response contract: explicit
// 400/404 cases carry their message, chain failures add the underlying
// detail, everything else collapses to a generic 500.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)

	var ae *apperr.AppError
	if !errors.As(err, &ae) {
		logger.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	switch ae.Kind {
	case apperr.KindValidation, apperr.KindDuplicate, apperr.KindNotFound:
		c.JSON(status, gin.H{"error": ae.Message})
	case apperr.KindChain:
		detail := ae.Message
		if ae.Err != nil {
			detail = ae.Err.Error()
		}
		logger.WithError(err).Error("Chain operation failed")
		c.JSON(status, gin.H{"error": "failed to publish tracks on-chain", "details": detail})
	default:
		logger.WithError(err).Error("Request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
