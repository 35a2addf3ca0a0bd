package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/playforge/dinomine/internal/checkpoint"
)

// validate checks progress payloads beyond what JSON decoding enforces.
// Shared instance: validator caches struct metadata.
var validate = validator.New()

// progressPayload is the POST body. Field names follow the wire format the
// game client persists, so stored checkpoints and payloads stay
// interchangeable.
type progressPayload struct {
	Balance    float64       `json:"balance" validate:"gte=0"`
	Units      []unitPayload `json:"ownedDinosaurs" validate:"dive"`
	LastUpdate int64         `json:"lastUpdate" validate:"gt=0"`
	LastBoost  *int64        `json:"lastBoost" validate:"omitempty,gt=0"`
}

type unitPayload struct {
	ID          string `json:"id" validate:"required"`
	Type        string `json:"type" validate:"required"`
	PurchasedAt int64  `json:"purchasedAt" validate:"gt=0"`
}

// handleGetProgress returns the account's stored checkpoint.
// 204 when the account has never synced.
func (s *Server) handleGetProgress(c *gin.Context) {
	acct := account(c)

	cp, err := s.store.GetProgress(c.Request.Context(), acct.ID)
	if errors.Is(err, checkpoint.ErrNotFound) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		s.logger.Error("get progress failed", "account", acct.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, cp)
}

// handlePostProgress upserts the account's checkpoint.
// 403 when the account has not unlocked the game; 400 on malformed payloads.
func (s *Server) handlePostProgress(c *gin.Context) {
	acct := account(c)

	if !acct.MiningUnlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "you must own the game to save progress"})
		return
	}

	var payload progressPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}
	if err := validate.Struct(payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	cp := checkpoint.Checkpoint{
		Balance:    payload.Balance,
		LastUpdate: payload.LastUpdate,
		LastBoost:  payload.LastBoost,
	}
	for _, u := range payload.Units {
		cp.Units = append(cp.Units, checkpoint.OwnedUnit{
			ID:          u.ID,
			Type:        u.Type,
			PurchasedAt: u.PurchasedAt,
		})
	}

	if err := s.store.PutProgress(c.Request.Context(), acct.ID, cp); err != nil {
		s.logger.Error("put progress failed", "account", acct.ID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to save progress"})
		return
	}

	s.logger.Debug("progress saved",
		"account", acct.ID, "balance", cp.Balance, "last_update", cp.LastUpdate)
	c.JSON(http.StatusOK, cp)
}
