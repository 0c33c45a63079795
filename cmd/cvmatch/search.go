package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cv-matcher/internal/config"
	"cv-matcher/internal/tui"
)

var searchCmd = &cobra.Command{
	Use:   "search <job description file>",
	Short: "Generate a boolean search string for sourcing candidates",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	jobFile, err := tui.LoadFile(args[0])
	if err != nil {
		return err
	}

	search, err := newClient(cfg).SearchQuery(context.Background(), jobFile)
	if err != nil {
		return fmt.Errorf("failed to generate search query: %w", err)
	}

	fmt.Println(search)
	return nil
}
