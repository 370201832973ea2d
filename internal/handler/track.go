package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/service"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

func (a *API) uploadTrack(c *gin.Context) {
	in := service.SubmitInput{
		Artist:       c.PostForm("artist"),
		Title:        c.PostForm("title"),
		ArtistWallet: c.PostForm("artistWallet"),
		Genre:        c.PostForm("genre"),
	}

	if videoHeader, err := c.FormFile("videoFile"); err == nil {
		video, err := videoHeader.Open()
		if err != nil {
			respondError(c, apperr.Storage("failed to read video upload", err))
			return
		}
		defer video.Close()
		in.Video = video
		in.VideoName = videoHeader.Filename
	}
	if coverHeader, err := c.FormFile("coverImageFile"); err == nil {
		cover, err := coverHeader.Open()
		if err != nil {
			respondError(c, apperr.Storage("failed to read cover upload", err))
			return
		}
		defer cover.Close()
		in.Cover = cover
		in.CoverName = coverHeader.Filename
	}

	track, err := a.tracks.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "track submitted for review",
		"track":   track,
	})
}

func (a *API) listPublished(c *gin.Context) {
	tracks, err := a.tracks.Published(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}

func (a *API) topByGenre(c *gin.Context) {
	top, err := a.tracks.TopByGenre(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, top)
}

func (a *API) overallWinner(c *gin.Context) {
	winner, err := a.tracks.OverallWinner(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if winner == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, winner)
}

func (a *API) topForGenre(c *gin.Context) {
	tracks, err := a.tracks.TopTracksForGenre(c.Request.Context(), c.Param("genreName"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}

func (a *API) updateTrackStatus(c *gin.Context) {
	var req struct {
		Status models.TrackStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	track, err := a.tracks.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "track status updated",
		"track":   track,
	})
}

func (a *API) deleteTrack(c *gin.Context) {
	if err := a.tracks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "track deleted"})
}

func (a *API) stats(c *gin.Context) {
	stats, err := a.tracks.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
