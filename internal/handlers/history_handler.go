package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ats-checker/internal/models"
	"alfredoptarigan/ats-checker/internal/repositories"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryHandler struct {
	analysisRepo repositories.AnalysisRepository
}

// NewHistoryHandler accepts a nil repository when history is disabled.
func NewHistoryHandler(analysisRepo repositories.AnalysisRepository) *HistoryHandler {
	return &HistoryHandler{
		analysisRepo: analysisRepo,
	}
}

// HandleGet handles GET /analyses/:id
func (h *HistoryHandler) HandleGet(c *fiber.Ctx) error {
	if h.analysisRepo == nil {
		return historyDisabled(c)
	}

	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Invalid analysis ID format",
		})
	}

	record, err := h.analysisRepo.FindByID(analysisID)
	if err != nil {
		if errors.Is(err, repositories.ErrAnalysisNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Message: "Analysis not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Message: "Failed to load analysis",
		})
	}

	return c.JSON(record)
}

// HandleList handles GET /analyses?limit=N
func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	if h.analysisRepo == nil {
		return historyDisabled(c)
	}

	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := h.analysisRepo.FindRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Message: "Failed to load analyses",
		})
	}
	if records == nil {
		records = []models.AnalysisRecord{}
	}

	return c.JSON(models.HistoryResponse{
		Analyses: records,
		Count:    len(records),
	})
}

func historyDisabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Message: "Analysis history is disabled",
	})
}
