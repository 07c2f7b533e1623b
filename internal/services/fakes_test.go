package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/ats-checker/internal/models"
	"alfredoptarigan/ats-checker/internal/repositories"
)

type fakeGemini struct {
	mu         sync.Mutex
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeGemini) GenerateText(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeGemini) BreakerState() string { return "closed" }

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(_ []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeAnalysisRepo struct {
	records []models.AnalysisRecord
	err     error
}

func (f *fakeAnalysisRepo) Create(record *models.AnalysisRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeAnalysisRepo) FindByID(id uuid.UUID) (*models.AnalysisRecord, error) {
	for _, r := range f.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, repositories.ErrAnalysisNotFound
}

func (f *fakeAnalysisRepo) FindRecent(limit int) ([]models.AnalysisRecord, error) {
	if len(f.records) < limit {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

var errUpstream = errors.New("upstream unavailable")
