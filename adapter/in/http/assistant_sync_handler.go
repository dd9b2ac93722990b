// Package http provides the fiber HTTP handlers.
package http

import (
	in "github.com/priyankc/PersonalAssistantBackend/core/port/in"
	"github.com/priyankc/PersonalAssistantBackend/core/port/out"
	"github.com/priyankc/PersonalAssistantBackend/pkg/apperr"
	"github.com/priyankc/PersonalAssistantBackend/pkg/logger"
	"github.com/priyankc/PersonalAssistantBackend/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SyncHandler handles sync invocations.
type SyncHandler struct {
	service in.SyncService
	lock    out.SyncLock
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(service in.SyncService, lock out.SyncLock) *SyncHandler {
	return &SyncHandler{service: service, lock: lock}
}

// Register registers sync routes.
func (h *SyncHandler) Register(router fiber.Router) {
	router.Post("/sync", h.RunSync)
}

// SyncRequest is the sync invocation payload.
type SyncRequest struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

// RunSync triggers one sync run for a user
// @Summary Sync recent emails and generate tasks
// @Tags Sync
// @Accept json
// @Produce json
// @Param request body SyncRequest true "Sync request"
// @Success 200 {object} domain.SyncResult
// @Router /api/v1/sync [post]
func (h *SyncHandler) RunSync(c *fiber.Ctx) error {
	var req SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.UserID == "" {
		return apperr.MissingField("user_id")
	}
	if req.AccessToken == "" {
		return apperr.MissingField("access_token")
	}

	// One in-flight sync per user: concurrent checkpoint writes have no
	// defined merge order.
	acquired, err := h.lock.Acquire(c.Context(), req.UserID)
	if err != nil {
		return apperr.InternalWithError(err)
	}
	if !acquired {
		return apperr.SyncInProgress(req.UserID)
	}
	defer func() {
		if err := h.lock.Release(c.Context(), req.UserID); err != nil {
			logger.WithError(err).Warn("Failed to release sync lock for user %s", req.UserID)
		}
	}()

	result, err := h.service.RunSync(c.Context(), req.UserID, req.AccessToken)
	if err != nil {
		return err
	}

	return response.OK(c, result)
}
