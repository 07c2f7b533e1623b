package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"alfredoptarigan/ats-checker/internal/metrics"
	"alfredoptarigan/ats-checker/internal/models"
	"alfredoptarigan/ats-checker/internal/repositories"
)

type AnalyzerService interface {
	// Analyze runs extract, prompt, infer and normalize for one request. The
	// returned ID identifies the history record and is uuid.Nil when history
	// is disabled.
	Analyze(ctx context.Context, req models.AnalysisRequest) (uuid.UUID, *models.AnalysisReport, error)
}

type analyzerService struct {
	extractor     TextExtractor
	promptBuilder *PromptBuilder
	geminiService GeminiService
	normalizer    ResponseNormalizer
	analysisRepo  repositories.AnalysisRepository
	metrics       *metrics.Metrics
}

// NewAnalyzerService wires the pipeline. analysisRepo and m may be nil.
func NewAnalyzerService(
	extractor TextExtractor,
	promptBuilder *PromptBuilder,
	geminiService GeminiService,
	normalizer ResponseNormalizer,
	analysisRepo repositories.AnalysisRepository,
	m *metrics.Metrics,
) AnalyzerService {
	return &analyzerService{
		extractor:     extractor,
		promptBuilder: promptBuilder,
		geminiService: geminiService,
		normalizer:    normalizer,
		analysisRepo:  analysisRepo,
		metrics:       m,
	}
}

func (a *analyzerService) Analyze(ctx context.Context, req models.AnalysisRequest) (uuid.UUID, *models.AnalysisReport, error) {
	start := time.Now()

	report, err := a.run(ctx, req)

	took := time.Since(start)
	outcome := "success"
	if err != nil {
		outcome = ErrorKind(err)
	}
	a.metrics.ObserveAnalysis(outcome, took)

	return a.record(req, report, err, took), report, err
}

func (a *analyzerService) run(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisReport, error) {
	if len(req.Document) == 0 {
		return nil, &InputError{Message: "No file uploaded"}
	}

	// Step 1: Extract text
	log.Printf("📄 Extracting text from %q (%d bytes)...\n", req.FileName, len(req.Document))
	resumeText, err := a.extractor.Extract(req.Document)
	if err != nil {
		log.Printf("❌ Extraction failed: %v\n", err)
		var extractionErr *ExtractionError
		if !errors.As(err, &extractionErr) {
			err = &ExtractionError{Cause: err}
		}
		return nil, err
	}
	log.Printf("✅ Extracted %d characters\n", utf8.RuneCountInString(resumeText))

	// Step 2: Build prompt
	prompt := a.promptBuilder.Build(resumeText, req.JobDescription)
	promptChars := utf8.RuneCountInString(prompt)
	a.metrics.ObservePrompt(promptChars)
	log.Printf("📝 ATS prompt length: %d characters\n", promptChars)

	// Step 3: Infer
	log.Println("🤖 Analyzing resume with LLM...")
	inferStart := time.Now()
	response, err := a.geminiService.GenerateText(ctx, prompt)
	a.metrics.ObserveInference(time.Since(inferStart))
	if err != nil {
		log.Printf("❌ ATS analysis failed: %v\n", err)
		var inferenceErr *InferenceError
		if !errors.As(err, &inferenceErr) {
			err = &InferenceError{Cause: err}
		}
		return nil, err
	}

	// Step 4: Normalize
	report, err := a.normalizer.Normalize(response)
	if err != nil {
		log.Printf("❌ Failed to parse ATS response: %v\nRaw response: %s\n", err, response)
		return nil, err
	}

	log.Printf("✅ ATS analysis completed: score %d\n", report.Score)
	return report, nil
}

// record writes the audit record. Failures are logged and never fail the
// analysis.
func (a *analyzerService) record(req models.AnalysisRequest, report *models.AnalysisReport, runErr error, took time.Duration) uuid.UUID {
	if a.analysisRepo == nil {
		return uuid.Nil
	}

	rec := &models.AnalysisRecord{
		ID:                     uuid.New(),
		FileName:               req.FileName,
		FileSize:               int64(len(req.Document)),
		JobDescriptionSupplied: strings.TrimSpace(req.JobDescription) != "",
		Status:                 models.StatusCompleted,
		DurationMs:             took.Milliseconds(),
		CreatedAt:              time.Now(),
	}
	if runErr != nil {
		rec.Status = models.StatusFailed
		rec.ErrorKind = ErrorKind(runErr)
	}
	if report != nil {
		score := report.Score
		rec.Score = &score
	}

	if err := a.analysisRepo.Create(rec); err != nil {
		log.Printf("⚠️  Failed to save analysis record: %v\n", err)
		return uuid.Nil
	}
	return rec.ID
}
