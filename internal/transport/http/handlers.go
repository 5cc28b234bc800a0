// Package http is the operator REST API of the relay: create rooms,
// list them and push scores.
package http

import (
	"errors"
	"net/http"

	"github.com/dkeye/ScoreStream/internal/app/orch"
	"github.com/dkeye/ScoreStream/internal/core"
	"github.com/dkeye/ScoreStream/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CreateRoomRequest struct {
	Player1 string `json:"player1" binding:"max=64"`
	Player2 string `json:"player2" binding:"max=64"`
}

type ScoreRequest struct {
	Player1  string `json:"player1" binding:"max=64"`
	Player2  string `json:"player2" binding:"max=64"`
	Score1   *int   `json:"score1" binding:"required,min=0"`
	Score2   *int   `json:"score2" binding:"required,min=0"`
	SetsWon1 *int   `json:"pset1" binding:"required,min=0"`
	SetsWon2 *int   `json:"pset2" binding:"required,min=0"`
}

type Handlers struct {
	Orch *orch.Orchestrator
}

func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/rooms", h.listRooms)
	r.POST("/rooms", h.createRoom)
	r.GET("/rooms/:id", h.getRoom)
	r.PUT("/rooms/:id/score", h.putScore)
	r.DELETE("/rooms/:id", h.deleteRoom)
}

func (h *Handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Orch.Rooms.List()})
}

func (h *Handlers) createRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room request"})
		return
	}
	room := h.Orch.Rooms.Create(req.Player1, req.Player2)
	log.Info().Str("module", "transport.http").Str("room", string(room.ID())).Msg("room created")
	c.JSON(http.StatusCreated, room.Snapshot())
}

func (h *Handlers) getRoom(c *gin.Context) {
	room, ok := h.Orch.Rooms.GetRoom(domain.RoomID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, core.RoomInfo{ID: room.ID(), Snapshot: room.Snapshot(), ViewerCount: room.ViewerCount()})
}

func (h *Handlers) putScore(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid score"})
		return
	}
	snap, err := h.Orch.UpdateScore(domain.RoomID(c.Param("id")), core.ScoreUpdate{
		Player1:  req.Player1,
		Player2:  req.Player2,
		Score1:   *req.Score1,
		Score2:   *req.Score2,
		SetsWon1: *req.SetsWon1,
		SetsWon2: *req.SetsWon2,
	})
	switch {
	case errors.Is(err, orch.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	case err != nil:
		log.Error().Err(err).Str("module", "transport.http").Msg("score update")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "score update failed"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handlers) deleteRoom(c *gin.Context) {
	id := domain.RoomID(c.Param("id"))
	if _, ok := h.Orch.Rooms.GetRoom(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	h.Orch.EvictRoom(id)
	c.Status(http.StatusNoContent)
}
