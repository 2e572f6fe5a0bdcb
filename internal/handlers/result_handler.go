package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitkit/resume-screener/internal/models"
	"recruitkit/resume-screener/internal/repositories"
)

type ResultHandler struct {
	evalRepo repositories.EvaluationRepository
	logger   *zap.Logger
}

func NewResultHandler(evalRepo repositories.EvaluationRepository, logger *zap.Logger) *ResultHandler {
	return &ResultHandler{
		evalRepo: evalRepo,
		logger:   logger,
	}
}

// HandleGetResult handles GET /result/:id. Completed evaluations include the
// full report decoded from the stored JSON column.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	idParam := c.Params("id")
	evalID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	evaluation, err := h.evalRepo.FindByID(evalID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Evaluation not found",
		})
	}

	response := models.ResultResponse{
		ID:     evaluation.ID.String(),
		Status: string(evaluation.Status),
	}

	if evaluation.Status == models.StatusCompleted && evaluation.Report != nil {
		var report models.EvaluationReport
		if err := json.Unmarshal([]byte(*evaluation.Report), &report); err != nil {
			h.logger.Error("failed to decode stored report",
				zap.String("evaluation_id", evalID.String()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to decode evaluation report",
			})
		}
		response.Result = &report
	}

	if evaluation.Status == models.StatusFailed {
		response.ErrorMessage = evaluation.ErrorMessage
	}

	return c.JSON(response)
}
