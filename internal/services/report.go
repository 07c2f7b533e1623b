package services

import (
	"fmt"
	"strings"
	"time"

	"alfredoptarigan/ats-checker/internal/models"
)

const (
	JobDescriptionPrompt = "Paste a job description to see a keyword gap analysis."
	AllKeywordsPresent   = "All major keywords present!"
	ExportFilename       = "resume_ats_report.txt"
	ExportTimeFormat     = "2006-01-02 15:04:05 MST"

	reportRule = "----------------------------------------"
)

type SectionBadge struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Found bool   `json:"found"`
}

// KeywordGap is only present when a job description was supplied.
type KeywordGap struct {
	MissingKeywords []string `json:"missingKeywords"`
	Note            string   `json:"note,omitempty"`
}

// ReportView is the on-screen breakdown of an AnalysisReport.
type ReportView struct {
	Score                int            `json:"score"`
	Summary              string         `json:"summary"`
	KeywordStatus        string         `json:"keywordStatus"`
	WordCount            string         `json:"wordCount"`
	Sections             []SectionBadge `json:"sections"`
	Strengths            []string       `json:"strengths"`
	Improvements         []string       `json:"improvements"`
	FoundVerbs           []string       `json:"foundVerbs"`
	KeywordGap           *KeywordGap    `json:"keywordGap,omitempty"`
	JobDescriptionPrompt string         `json:"jobDescriptionPrompt,omitempty"`
}

// View builds the on-screen breakdown. The keyword gap is shown only when a
// job description was supplied; otherwise the view asks for one.
func View(report *models.AnalysisReport, jobDescriptionSupplied bool) ReportView {
	view := ReportView{
		Score:         report.Score,
		Summary:       report.Summary,
		KeywordStatus: "Great",
		WordCount:     formatWordCount(report.WordCount),
		Sections:      make([]SectionBadge, 0, len(models.SectionKeys)),
		Strengths:     report.Strengths,
		Improvements:  report.Improvements,
		FoundVerbs:    report.FoundVerbs,
	}
	if len(report.MissingKeywords) > 0 {
		view.KeywordStatus = "Missing Some"
	}

	for _, key := range models.SectionKeys {
		view.Sections = append(view.Sections, SectionBadge{
			Key:   key,
			Label: models.SectionLabels[key],
			Found: report.Sections[key],
		})
	}

	if !jobDescriptionSupplied {
		view.JobDescriptionPrompt = JobDescriptionPrompt
		return view
	}

	view.KeywordGap = &KeywordGap{MissingKeywords: report.MissingKeywords}
	if len(report.MissingKeywords) == 0 {
		view.KeywordGap.Note = AllKeywordsPresent
	}
	return view
}

// Export serializes report into the downloadable plain-text report. The output
// depends only on report and generatedAt.
func Export(report *models.AnalysisReport, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("RESUME ATS ANALYSIS REPORT\n")
	fmt.Fprintf(&b, "Generated on: %s\n", generatedAt.Format(ExportTimeFormat))
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "OVERALL SCORE: %d/100\n", report.Score)
	b.WriteString(reportRule + "\n\n")

	b.WriteString("SUMMARY:\n")
	b.WriteString(report.Summary + "\n\n")

	b.WriteString("CRITICAL SECTIONS CHECK:\n")
	for _, key := range models.SectionKeys {
		status := "FAIL"
		if report.Sections[key] {
			status = "PASS"
		}
		fmt.Fprintf(&b, "[%s] %s\n", status, models.SectionLabels[key])
	}
	b.WriteString("\n")

	b.WriteString("CONTENT ANALYSIS:\n")
	fmt.Fprintf(&b, "Word Count: ~%s words\n", formatWordCount(report.WordCount))
	fmt.Fprintf(&b, "Action Verbs Found: %s\n\n", joinOr(report.FoundVerbs, "N/A"))

	b.WriteString("STRENGTHS:\n")
	writeDashList(&b, report.Strengths)
	b.WriteString("\n")

	b.WriteString("MISSING KEYWORDS:\n")
	b.WriteString(joinOr(report.MissingKeywords, "None detected") + "\n\n")

	b.WriteString("IMPROVEMENT SUGGESTIONS:\n")
	writeDashList(&b, report.Improvements)
	b.WriteString("\n")

	b.WriteString(reportRule + "\n")
	b.WriteString("End of Report\n")

	return b.String()
}

func writeDashList(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func formatWordCount(count int) string {
	if count <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", count)
}
