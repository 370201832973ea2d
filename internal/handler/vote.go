package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/service"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

func (a *API) castVote(c *gin.Context) {
	var req struct {
		TrackID      string `json:"trackId"`
		VoterAddress string `json:"voterAddress"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}
	if req.TrackID == "" || req.VoterAddress == "" {
		respondError(c, apperr.Validation("trackId and voterAddress are required"))
		return
	}

	vote, err := a.votes.Cast(c.Request.Context(), req.TrackID, req.VoterAddress)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "vote recorded",
		"vote":    vote,
	})
}

func (a *API) tallyVotes(c *gin.Context) {
	trackIDs, voteCounts, err := a.votes.Tally(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trackIds":   trackIDs,
		"voteCounts": voteCounts,
	})
}

func (a *API) clearVotes(c *gin.Context) {
	cleared, err := a.votes.Clear(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "unprocessed votes marked as processed",
		"cleared": cleared,
	})
}

func (a *API) submitShare(c *gin.Context) {
	var req struct {
		TrackID  string `json:"trackId"`
		UserID   string `json:"userId"`
		Platform string `json:"platform"`
		ProofURL string `json:"proofUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	share, err := a.shares.Submit(c.Request.Context(), service.ShareInput{
		TrackID:  req.TrackID,
		UserID:   req.UserID,
		Platform: req.Platform,
		ProofURL: req.ProofURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "share recorded, pending verification",
		"share":   share,
	})
}
