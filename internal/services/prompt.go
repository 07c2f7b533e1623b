package services

import (
	"fmt"
	"strings"
)

const (
	DefaultMaxResumeChars         = 20000
	DefaultMaxJobDescriptionChars = 5000
)

const atsPromptTemplate = `You are an expert ATS (Applicant Tracking System) Resume Analyzer.

Resume Text:
"%s"

%s

Please analyze the resume and provide the following in JSON format ONLY. Do not include any markdown formatting, code fences or text before or after the JSON object:
{
  "score": integer (0-100),
  "summary": "Brief summary of the resume's quality and fit",
  "strengths": ["List of 3-5 strong points"],
  "missingKeywords": ["List of 5-10 important keywords missing from the resume based on the job description or general standards"],
  "improvements": ["List of 3-5 specific actionable improvements"],
  "sections": {
    "contact": boolean,
    "education": boolean,
    "experience": boolean,
    "skills": boolean,
    "projects": boolean
  },
  "wordCount": integer (approximate),
  "foundVerbs": ["List of strong action verbs found"]
}
Your response must be a single JSON object.`

const genericStandardsInstruction = "No job description was provided. Analyze against general professional resume standards."

type PromptBuilder struct {
	maxResumeChars         int
	maxJobDescriptionChars int
}

func NewPromptBuilder(maxResumeChars, maxJobDescriptionChars int) *PromptBuilder {
	if maxResumeChars <= 0 {
		maxResumeChars = DefaultMaxResumeChars
	}
	if maxJobDescriptionChars <= 0 {
		maxJobDescriptionChars = DefaultMaxJobDescriptionChars
	}
	return &PromptBuilder{
		maxResumeChars:         maxResumeChars,
		maxJobDescriptionChars: maxJobDescriptionChars,
	}
}

// Build creates the ATS analysis prompt. Both inputs are cut to a fixed
// character prefix, so the prompt never exceeds MaxPromptChars.
func (pb *PromptBuilder) Build(resumeText, jobDescription string) string {
	context := genericStandardsInstruction
	if strings.TrimSpace(jobDescription) != "" {
		context = fmt.Sprintf("Job Description:\n\"%s\"", truncateChars(jobDescription, pb.maxJobDescriptionChars))
	}

	return fmt.Sprintf(atsPromptTemplate, truncateChars(resumeText, pb.maxResumeChars), context)
}

// MaxPromptChars is the upper bound, in characters, of any prompt Build returns.
func (pb *PromptBuilder) MaxPromptChars() int {
	overhead := len([]rune(atsPromptTemplate)) - len("%s%s")
	context := max(len([]rune(genericStandardsInstruction)), len([]rune("Job Description:\n\"\""))+pb.maxJobDescriptionChars)
	return overhead + pb.maxResumeChars + context
}

// truncateChars keeps the first n characters of s.
func truncateChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
