package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

func (a *API) listSubmissions(c *gin.Context) {
	tracks, err := a.tracks.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}

func (a *API) listShares(c *gin.Context) {
	shares, err := a.shares.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shares)
}

func (a *API) listVotes(c *gin.Context) {
	votes, err := a.votes.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, votes)
}

func (a *API) approveTrack(c *gin.Context) {
	track, err := a.tracks.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "track approved",
		"track":   track,
	})
}

func (a *API) publishWeekly(c *gin.Context) {
	published, err := a.tracks.PublishWeekly(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "last week's approved uploads published",
		"publishedTracks": published,
	})
}

func (a *API) publishAllApproved(c *gin.Context) {
	published, err := a.tracks.PublishAllApproved(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "approved tracks registered on-chain",
		"publishedTracks": published,
	})
}

func (a *API) verifyShare(c *gin.Context) {
	// Status defaults to verified; the admin UI sends rejected explicitly.
	req := struct {
		Status models.ShareStatus `json:"status"`
	}{Status: models.ShareStatusVerified}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Validation("invalid request body"))
			return
		}
	}

	share, err := a.shares.Verify(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "share verification updated",
		"share":   share,
	})
}
