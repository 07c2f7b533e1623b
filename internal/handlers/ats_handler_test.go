package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-checker/internal/models"
	"alfredoptarigan/ats-checker/internal/services"
)

func newATSApp(analyzer services.AnalyzerService, maxFileSize int64) *fiber.App {
	h := NewATSHandler(analyzer, services.NewResponseNormalizer(), maxFileSize, 0)
	app := fiber.New()
	app.Post("/ats-check", h.HandleCheck)
	app.Post("/ats-check/export", h.HandleExport)
	app.Post("/ats-check/view", h.HandleView)
	return app
}

func TestHandleCheckSuccess(t *testing.T) {
	id := uuid.New()
	analyzer := &fakeAnalyzer{id: id, report: testReport()}
	app := newATSApp(analyzer, 1024)

	resp, body := doRequest(t, app, multipartRequest(t, "/ats-check", "resume.pdf", []byte("%PDF-1.4"), "Go, Rust"))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, id.String(), resp.Header.Get("X-Analysis-ID"))

	var report models.AnalysisReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 64, report.Score)
	assert.Equal(t, []string{"Rust", "Docker"}, report.MissingKeywords)

	assert.Equal(t, "resume.pdf", analyzer.lastReq.FileName)
	assert.Equal(t, []byte("%PDF-1.4"), analyzer.lastReq.Document)
	assert.Equal(t, "Go, Rust", analyzer.lastReq.JobDescription)
}

func TestHandleCheckWithoutHistoryOmitsID(t *testing.T) {
	app := newATSApp(&fakeAnalyzer{report: testReport()}, 1024)

	resp, _ := doRequest(t, app, multipartRequest(t, "/ats-check", "resume.pdf", []byte("data"), ""))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Analysis-ID"))
}

func TestHandleCheckMissingFile(t *testing.T) {
	analyzer := &fakeAnalyzer{err: &services.InputError{Message: "No file uploaded"}}
	app := newATSApp(analyzer, 1024)

	resp, body := doRequest(t, app, multipartRequest(t, "/ats-check", "", nil, "Go"))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file uploaded", decodeError(t, body).Message)
	assert.Empty(t, analyzer.lastReq.Document)
}

func TestHandleCheckFileTooLarge(t *testing.T) {
	analyzer := &fakeAnalyzer{report: testReport()}
	app := newATSApp(analyzer, 8)

	resp, body := doRequest(t, app, multipartRequest(t, "/ats-check", "big.pdf", []byte(strings.Repeat("x", 64)), ""))

	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Contains(t, decodeError(t, body).Message, "File too large")
	assert.Equal(t, 0, analyzer.calls)
}

func TestHandleCheckErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
		detail  string
		raw     string
	}{
		{
			name:    "extraction",
			err:     &services.ExtractionError{Cause: errors.New("corrupt xref")},
			status:  fiber.StatusBadRequest,
			message: "Failed to read PDF file.",
			detail:  "corrupt xref",
		},
		{
			name:    "inference",
			err:     &services.InferenceError{Cause: errors.New("quota exceeded")},
			status:  fiber.StatusInternalServerError,
			message: "Failed to analyze resume",
			detail:  inferenceFailureMessage,
		},
		{
			name:    "malformed",
			err:     &services.MalformedResponseError{Raw: "I'm sorry, I cannot analyze this resume.", Cause: errors.New("not json")},
			status:  fiber.StatusInternalServerError,
			message: "AI response was not valid JSON",
			raw:     "I'm sorry, I cannot analyze this resume.",
		},
		{
			name:    "unexpected",
			err:     errors.New("boom"),
			status:  fiber.StatusInternalServerError,
			message: "Failed to analyze resume",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newATSApp(&fakeAnalyzer{err: tc.err}, 1024)

			resp, body := doRequest(t, app, multipartRequest(t, "/ats-check", "resume.pdf", []byte("data"), ""))

			assert.Equal(t, tc.status, resp.StatusCode)
			errResp := decodeError(t, body)
			assert.Equal(t, tc.message, errResp.Message)
			assert.Equal(t, tc.detail, errResp.Error)
			assert.Equal(t, tc.raw, errResp.RawResponse)
			assert.NotContains(t, string(body), "quota exceeded")
		})
	}
}

func TestHandleExportJSONBody(t *testing.T) {
	app := newATSApp(&fakeAnalyzer{}, 1024)
	payload, err := json.Marshal(testReport())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ats-check/export", strings.NewReader(string(payload)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body := doRequest(t, app, req)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), services.ExportFilename)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/plain"))
	assert.True(t, strings.HasPrefix(string(body), "RESUME ATS ANALYSIS REPORT\n"))
	assert.Contains(t, string(body), "OVERALL SCORE: 64/100")
	assert.Contains(t, string(body), "MISSING KEYWORDS:\nRust, Docker\n")
}

func TestHandleExportFormField(t *testing.T) {
	app := newATSApp(&fakeAnalyzer{}, 1024)
	payload, err := json.Marshal(testReport())
	require.NoError(t, err)

	form := url.Values{"report": {string(payload)}}
	req := httptest.NewRequest(http.MethodPost, "/ats-check/export", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, body := doRequest(t, app, req)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "[PASS] Contact Information")
	assert.Contains(t, string(body), "[FAIL] Projects Section")
}

func TestHandleExportRejectsInvalidReport(t *testing.T) {
	app := newATSApp(&fakeAnalyzer{}, 1024)

	req := httptest.NewRequest(http.MethodPost, "/ats-check/export", strings.NewReader(`{"summary": "no score"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid report payload", decodeError(t, body).Message)
}

func TestHandleView(t *testing.T) {
	app := newATSApp(&fakeAnalyzer{}, 1024)
	report, err := json.Marshal(testReport())
	require.NoError(t, err)

	for _, supplied := range []bool{true, false} {
		payload, err := json.Marshal(models.ViewRequest{Report: report, JobDescriptionSupplied: supplied})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/ats-check/view", strings.NewReader(string(payload)))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, body := doRequest(t, app, req)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var view services.ReportView
		require.NoError(t, json.Unmarshal(body, &view))
		assert.Equal(t, "Missing Some", view.KeywordStatus)
		assert.Len(t, view.Sections, len(models.SectionKeys))
		if supplied {
			require.NotNil(t, view.KeywordGap)
			assert.Equal(t, []string{"Rust", "Docker"}, view.KeywordGap.MissingKeywords)
			assert.Empty(t, view.JobDescriptionPrompt)
		} else {
			assert.Nil(t, view.KeywordGap)
			assert.Equal(t, services.JobDescriptionPrompt, view.JobDescriptionPrompt)
		}
	}
}

func TestHandleViewRejectsBadPayload(t *testing.T) {
	app := newATSApp(&fakeAnalyzer{}, 1024)

	for _, payload := range []string{"not json", `{"report": "prose"}`, `{"jobDescriptionSupplied": true}`} {
		req := httptest.NewRequest(http.MethodPost, "/ats-check/view", strings.NewReader(payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := doRequest(t, app, req)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, payload)
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "No file uploaded.", userMessage(&services.InputError{Message: "No file uploaded"}))
	assert.Equal(t, "Failed to read PDF file.", userMessage(&services.ExtractionError{Cause: errors.New("x")}))
	assert.Equal(t, "Failed to analyze resume. Please try again.", userMessage(&services.InferenceError{Cause: errors.New("x")}))
}
