package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"alfredoptarigan/ats-checker/internal/models"
)

const (
	MinScore = 0
	MaxScore = 100

	// MaxWordCount bounds a plausible word count; larger values mean "unknown".
	MaxWordCount = math.MaxInt32
)

// rawReport mirrors the model output before validation. Pointers and raw
// messages distinguish absent fields from zero values.
type rawReport struct {
	Score           *float64        `json:"score"`
	Summary         *string         `json:"summary"`
	Strengths       []string        `json:"strengths"`
	MissingKeywords []string        `json:"missingKeywords"`
	Improvements    []string        `json:"improvements"`
	Sections        map[string]bool `json:"sections"`
	WordCount       json.RawMessage `json:"wordCount"`
	FoundVerbs      []string        `json:"foundVerbs"`
}

type ResponseNormalizer interface {
	Normalize(raw string) (*models.AnalysisReport, error)
}

type responseNormalizer struct{}

func NewResponseNormalizer() ResponseNormalizer {
	return &responseNormalizer{}
}

// Normalize strips code fences from the model output, parses it and returns a
// fully shaped report. Scores outside [0,100] are clamped, the summary and list
// entries are trimmed and blank entries dropped. Normalize is idempotent on its
// own output: Normalize(json(Normalize(x))) == Normalize(x).
func (n *responseNormalizer) Normalize(raw string) (*models.AnalysisReport, error) {
	jsonStr := StripCodeFences(raw)
	if jsonStr == "" {
		return nil, &MalformedResponseError{Raw: raw, Cause: errors.New("empty response")}
	}
	if !strings.HasPrefix(jsonStr, "{") {
		return nil, &MalformedResponseError{Raw: raw, Cause: errors.New("response is not a JSON object")}
	}

	var parsed rawReport
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, &MalformedResponseError{Raw: raw, Cause: fmt.Errorf("failed to unmarshal JSON: %w", err)}
	}

	if parsed.Score == nil {
		return nil, &MalformedResponseError{Raw: raw, Cause: errors.New("missing required field: score")}
	}

	report := &models.AnalysisReport{
		Score:           ClampScore(*parsed.Score),
		Strengths:       cleanList(parsed.Strengths),
		MissingKeywords: cleanList(parsed.MissingKeywords),
		Improvements:    cleanList(parsed.Improvements),
		Sections:        models.NewSections(),
		WordCount:       parseWordCount(parsed.WordCount),
		FoundVerbs:      cleanList(parsed.FoundVerbs),
	}
	if parsed.Summary != nil {
		report.Summary = strings.TrimSpace(*parsed.Summary)
	}
	for _, key := range models.SectionKeys {
		report.Sections[key] = parsed.Sections[key]
	}

	return report, nil
}

// StripCodeFences removes a leading ``` / ```json line and a trailing ```
// that models add despite instructions.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.IndexAny(text, "\r\n"); idx >= 0 && isFenceLabel(text[:idx]) {
			text = text[idx:]
		} else if isFenceLabel(text) {
			text = ""
		} else if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
			text = text[4:]
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func isFenceLabel(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "json")
}

// ClampScore rounds score to the nearest integer inside [MinScore, MaxScore].
func ClampScore(score float64) int {
	if math.IsNaN(score) {
		return MinScore
	}
	rounded := math.Round(score)
	if rounded < MinScore {
		return MinScore
	}
	if rounded > MaxScore {
		return MaxScore
	}
	return int(rounded)
}

// parseWordCount accepts any JSON number in [0, MaxWordCount]; other values
// mean "unknown".
func parseWordCount(raw json.RawMessage) int {
	var count float64
	if len(raw) == 0 || json.Unmarshal(raw, &count) != nil {
		return 0
	}
	count = math.Round(count)
	if count < 0 || count > MaxWordCount {
		return 0
	}
	return int(count)
}

func cleanList(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}
