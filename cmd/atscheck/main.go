package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-checker/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "atscheck",
	Short: "ATS compatibility checker for resumes",
	Long: `atscheck scores a resume for Applicant Tracking System compatibility
using a generative model, optionally against a target job description.`,
	SilenceUsage: true,
}

func main() {
	cfg := config.Load()

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newServeCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
