package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cv-matcher/internal/config"
	"cv-matcher/internal/intake"
	"cv-matcher/internal/tui"
)

var jobPath string

// cvAcceptedTypes mirrors what the server-side extractor understands.
var cvAcceptedTypes = []string{"application/pdf", ".pdf", ".doc", ".docx", ".txt"}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [cv files...]",
	Short: "Compare CVs against a job description (TUI)",
	Long: "Launches the interactive analysis view. CV paths given as arguments are " +
		"pre-staged; more can be added inside the TUI.",
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&jobPath, "job", "j", "", "path to the job description file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	widget := intake.NewWidget(cvAcceptedTypes, cfg.Upload.MaxFiles, cfg.Upload.MaxFileSize)
	model, err := tui.NewModel(newClient(cfg), widget, jobPath, args)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run analysis view: %w", err)
	}
	return nil
}
