package http

import (
	"strconv"

	in "github.com/priyankc/PersonalAssistantBackend/core/port/in"
	"github.com/priyankc/PersonalAssistantBackend/pkg/apperr"
	"github.com/priyankc/PersonalAssistantBackend/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TaskHandler handles task follow-up actions.
type TaskHandler struct {
	replies in.ReplyService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(replies in.ReplyService) *TaskHandler {
	return &TaskHandler{replies: replies}
}

// Register registers task routes.
func (h *TaskHandler) Register(router fiber.Router) {
	tasks := router.Group("/tasks")
	tasks.Post("/:id/reply", h.SendReply)
}

// ReplyRequest is the payload for sending an approved draft reply.
type ReplyRequest struct {
	AccessToken string `json:"access_token"`
}

// SendReply sends the approved draft reply of a reply task
// @Summary Send the approved draft reply for a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body ReplyRequest true "Reply request"
// @Success 200 {object} response.Response
// @Router /api/v1/tasks/{id}/reply [post]
func (h *TaskHandler) SendReply(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperr.BadRequest("invalid task id")
	}

	var req ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.AccessToken == "" {
		return apperr.MissingField("access_token")
	}

	if err := h.replies.SendTaskReply(c.Context(), id, req.AccessToken); err != nil {
		return err
	}

	return response.OK(c, fiber.Map{"sent": true})
}
