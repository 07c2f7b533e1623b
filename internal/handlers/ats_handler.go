package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ats-checker/internal/models"
	"alfredoptarigan/ats-checker/internal/services"
)

const inferenceFailureMessage = "analysis failed, try again"

type ATSHandler struct {
	analyzer       services.AnalyzerService
	normalizer     services.ResponseNormalizer
	maxFileSize    int64
	requestTimeout time.Duration
}

func NewATSHandler(
	analyzer services.AnalyzerService,
	normalizer services.ResponseNormalizer,
	maxFileSize int64,
	requestTimeout time.Duration,
) *ATSHandler {
	return &ATSHandler{
		analyzer:       analyzer,
		normalizer:     normalizer,
		maxFileSize:    maxFileSize,
		requestTimeout: requestTimeout,
	}
}

// HandleCheck handles POST /ats-check
func (h *ATSHandler) HandleCheck(c *fiber.Ctx) error {
	req, fiberErr := readAnalysisRequest(c, h.maxFileSize)
	if fiberErr != nil {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{
			Message: fiberErr.Message,
		})
	}

	ctx, cancel := requestContext(c, h.requestTimeout)
	defer cancel()

	analysisID, report, err := h.analyzer.Analyze(ctx, req)
	if analysisID != uuid.Nil {
		c.Set("X-Analysis-ID", analysisID.String())
	}
	if err != nil {
		status, body := errorResponse(err)
		return c.Status(status).JSON(body)
	}

	return c.JSON(report)
}

// HandleExport handles POST /ats-check/export. The report is taken from the
// JSON body or from the "report" form field.
func (h *ATSHandler) HandleExport(c *fiber.Ctx) error {
	raw := string(c.Body())
	if formValue := c.FormValue("report"); formValue != "" {
		raw = formValue
	}

	report, err := h.normalizer.Normalize(raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Invalid report payload",
			Error:   err.Error(),
		})
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", services.ExportFilename))
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(services.Export(report, time.Now()))
}

// HandleView handles POST /ats-check/view
func (h *ATSHandler) HandleView(c *fiber.Ctx) error {
	var body models.ViewRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Invalid request payload",
		})
	}

	report, err := h.normalizer.Normalize(string(body.Report))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Invalid report payload",
			Error:   err.Error(),
		})
	}

	return c.JSON(services.View(report, body.JobDescriptionSupplied))
}

// requestContext bounds an analysis by timeout. A non-positive timeout leaves
// the request context unbounded.
func requestContext(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), timeout)
}

// readAnalysisRequest reads the multipart "file" and "jobDescription" fields.
// A missing file yields an empty Document, which the analyzer rejects.
func readAnalysisRequest(c *fiber.Ctx, maxFileSize int64) (models.AnalysisRequest, *fiber.Error) {
	req := models.AnalysisRequest{
		JobDescription: c.FormValue("jobDescription"),
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return req, nil
	}

	if maxFileSize > 0 && fileHeader.Size > maxFileSize {
		return req, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("File too large. Max size: %d bytes", maxFileSize))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "Failed to open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded file")
	}

	req.Document = data
	req.FileName = fileHeader.Filename
	return req, nil
}

// errorResponse maps a pipeline error to its HTTP status and body.
func errorResponse(err error) (int, models.ErrorResponse) {
	var (
		inputErr      *services.InputError
		extractionErr *services.ExtractionError
		inferenceErr  *services.InferenceError
		malformedErr  *services.MalformedResponseError
	)

	switch {
	case errors.As(err, &inputErr):
		return fiber.StatusBadRequest, models.ErrorResponse{Message: inputErr.Message}
	case errors.As(err, &extractionErr):
		return fiber.StatusBadRequest, models.ErrorResponse{
			Message: "Failed to read PDF file.",
			Error:   extractionErr.Cause.Error(),
		}
	case errors.As(err, &malformedErr):
		return fiber.StatusInternalServerError, models.ErrorResponse{
			Message:     "AI response was not valid JSON",
			RawResponse: malformedErr.Raw,
		}
	case errors.As(err, &inferenceErr):
		log.Printf("❌ Inference error: %v\n", inferenceErr.Cause)
		return fiber.StatusInternalServerError, models.ErrorResponse{
			Message: "Failed to analyze resume",
			Error:   inferenceFailureMessage,
		}
	default:
		log.Printf("❌ Unexpected analysis error: %v\n", err)
		return fiber.StatusInternalServerError, models.ErrorResponse{
			Message: "Failed to analyze resume",
		}
	}
}

// userMessage is the short notice shown on the HTML page for a failed analysis.
func userMessage(err error) string {
	status, body := errorResponse(err)
	if status == fiber.StatusInternalServerError {
		return "Failed to analyze resume. Please try again."
	}
	return strings.TrimSuffix(body.Message, ".") + "."
}
