package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-checker/internal/models"
	"alfredoptarigan/ats-checker/internal/repositories"
)

type fakeAnalyzer struct {
	id      uuid.UUID
	report  *models.AnalysisReport
	err     error
	calls   int
	lastReq models.AnalysisRequest

	deadline    time.Time
	hasDeadline bool
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req models.AnalysisRequest) (uuid.UUID, *models.AnalysisReport, error) {
	f.calls++
	f.lastReq = req
	f.deadline, f.hasDeadline = ctx.Deadline()
	return f.id, f.report, f.err
}

type fakeRepo struct {
	records []models.AnalysisRecord
	err     error
}

func (f *fakeRepo) Create(record *models.AnalysisRecord) error {
	f.records = append(f.records, *record)
	return f.err
}

func (f *fakeRepo) FindByID(id uuid.UUID) (*models.AnalysisRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, repositories.ErrAnalysisNotFound
}

func (f *fakeRepo) FindRecent(limit int) ([]models.AnalysisRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.records) < limit {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

func testReport() *models.AnalysisReport {
	sections := models.NewSections()
	sections[models.SectionContact] = true
	sections[models.SectionSkills] = true
	return &models.AnalysisReport{
		Score:           64,
		Summary:         "Decent backend résumé.",
		Strengths:       []string{"Go experience"},
		MissingKeywords: []string{"Rust", "Docker"},
		Improvements:    []string{"Add projects"},
		Sections:        sections,
		WordCount:       280,
		FoundVerbs:      []string{"Built"},
	}
}

// multipartRequest builds a form upload. An empty fileName omits the file part.
func multipartRequest(t *testing.T, target, fileName string, content []byte, jobDescription string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.WriteField("jobDescription", jobDescription))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decodeError(t *testing.T, body []byte) models.ErrorResponse {
	t.Helper()

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	return errResp
}
