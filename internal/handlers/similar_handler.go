package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recruitkit/resume-screener/internal/models"
	"recruitkit/resume-screener/internal/repositories"
	"recruitkit/resume-screener/internal/services"
)

const defaultSimilarLimit = 5

type SimilarHandler struct {
	evalRepo repositories.EvaluationRepository
	index    services.CandidateIndex
}

func NewSimilarHandler(evalRepo repositories.EvaluationRepository, index services.CandidateIndex) *SimilarHandler {
	return &SimilarHandler{
		evalRepo: evalRepo,
		index:    index,
	}
}

// HandleGetSimilar handles GET /candidates/similar/:id. It returns previously
// completed evaluations whose CV vector is closest to the given evaluation's.
func (h *SimilarHandler) HandleGetSimilar(c *fiber.Ctx) error {
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

	if evaluation.Status != models.StatusCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Evaluation is not completed yet",
		})
	}

	limit := defaultSimilarLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	matches, err := h.index.SimilarToCandidate(c.Context(), evalID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search similar candidates",
		})
	}

	candidates := make([]models.SimilarCandidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, models.SimilarCandidate{
			EvaluationID: m.EvaluationID,
			JobTitle:     m.JobTitle,
			Decision:     m.Decision,
			OverallMean:  m.OverallMean,
			Similarity:   m.Score,
		})
	}

	return c.JSON(models.SimilarCandidatesResponse{
		EvaluationID: evalID.String(),
		Candidates:   candidates,
	})
}

// HandleRemoveCandidate handles DELETE /candidates/:id. It removes a screened
// candidate from the similarity index, for example after the candidate
// withdraws. The evaluation row itself is kept.
func (h *SimilarHandler) HandleRemoveCandidate(c *fiber.Ctx) error {
	idParam := c.Params("id")
	evalID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	if err := h.index.DeleteCandidate(c.Context(), evalID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove candidate from index",
		})
	}

	return c.JSON(fiber.Map{
		"id":      evalID.String(),
		"removed": true,
	})
}
