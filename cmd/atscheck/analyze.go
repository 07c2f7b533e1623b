package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-checker/internal/config"
	"alfredoptarigan/ats-checker/internal/models"
	"alfredoptarigan/ats-checker/internal/server"
	"alfredoptarigan/ats-checker/internal/services"
)

type analyzeOptions struct {
	jobFile string
	format  string
	output  string
}

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [resume-file]",
		Short: "Analyze a resume file and print the ATS report",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "json" && opts.format != "text" {
				return fmt.Errorf("unsupported format %q (json or text)", opts.format)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			geminiService, err := server.NewGeminiFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize Gemini AI: %w", err)
			}

			analyzer := services.NewAnalyzerService(
				services.NewTextExtractor(),
				services.NewPromptBuilder(cfg.Analysis.MaxResumeChars, cfg.Analysis.MaxJobDescriptionChars),
				geminiService,
				services.NewResponseNormalizer(),
				nil,
				nil,
			)

			return runAnalyze(cmd, analyzer, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.jobFile, "job", "j", "", "Job description text file")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: json or text")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

// runAnalyze writes the report to opts.output, or stdout when unset. The output
// file is only created once the analysis has succeeded.
func runAnalyze(cmd *cobra.Command, analyzer services.AnalyzerService, resumePath string, opts *analyzeOptions) error {
	if opts.format != "json" && opts.format != "text" {
		return fmt.Errorf("unsupported format %q (json or text)", opts.format)
	}

	document, err := os.ReadFile(resumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	req := models.AnalysisRequest{
		Document: document,
		FileName: filepath.Base(resumePath),
	}
	if opts.jobFile != "" {
		jobDescription, err := os.ReadFile(opts.jobFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		req.JobDescription = string(jobDescription)
	}

	_, report, err := analyzer.Analyze(cmd.Context(), req)
	if err != nil {
		var malformedErr *services.MalformedResponseError
		if errors.As(err, &malformedErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Raw model response:\n%s\n", malformedErr.Raw)
		}
		return err
	}

	var rendered bytes.Buffer
	if opts.format == "json" {
		encoder := json.NewEncoder(&rendered)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else {
		rendered.WriteString(services.Export(report, time.Now()))
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, rendered.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	_, err = cmd.OutOrStdout().Write(rendered.Bytes())
	return err
}
