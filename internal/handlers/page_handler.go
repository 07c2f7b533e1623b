package handlers

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-checker/internal/models"
	"alfredoptarigan/ats-checker/internal/services"
)

//go:embed templates/index.html
var indexTemplate string

var pageTemplate = template.Must(template.New("index").Parse(indexTemplate))

// PageData drives the HTML page. Phase is input until an analysis succeeds.
type PageData struct {
	Phase          models.Phase
	JobDescription string
	FileName       string
	Error          string
	View           *services.ReportView
	ReportJSON     string
}

// PageHandler serves the browser front end for the analysis pipeline.
type PageHandler struct {
	analyzer       services.AnalyzerService
	maxFileSize    int64
	requestTimeout time.Duration
}

func NewPageHandler(analyzer services.AnalyzerService, maxFileSize int64, requestTimeout time.Duration) *PageHandler {
	return &PageHandler{
		analyzer:       analyzer,
		maxFileSize:    maxFileSize,
		requestTimeout: requestTimeout,
	}
}

// HandleIndex handles GET /
func (h *PageHandler) HandleIndex(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, PageData{Phase: models.PhaseInput})
}

// HandleSubmit handles POST /. A failure re-renders the input phase with the
// entered job description preserved.
func (h *PageHandler) HandleSubmit(c *fiber.Ctx) error {
	req, fiberErr := readAnalysisRequest(c, h.maxFileSize)
	data := PageData{
		Phase:          models.PhaseInput,
		JobDescription: req.JobDescription,
		FileName:       req.FileName,
	}
	if fiberErr != nil {
		data.Error = fiberErr.Message
		return render(c, fiberErr.Code, data)
	}

	ctx, cancel := requestContext(c, h.requestTimeout)
	defer cancel()

	_, report, err := h.analyzer.Analyze(ctx, req)
	if err != nil {
		status, _ := errorResponse(err)
		data.Error = userMessage(err)
		return render(c, status, data)
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return err
	}

	view := services.View(report, strings.TrimSpace(req.JobDescription) != "")
	data.Phase = models.PhaseReport
	data.View = &view
	data.ReportJSON = string(reportJSON)
	return render(c, fiber.StatusOK, data)
}

func render(c *fiber.Ctx, status int, data PageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
