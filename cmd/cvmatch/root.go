package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"cv-matcher/internal/client"
	"cv-matcher/internal/config"
)

var (
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "cvmatch",
	Short: "Score candidate CVs against a job description",
	Long:  "cvmatch uploads a job description and a batch of CVs to the CV Matcher API and shows ranked match scores.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "CV Matcher API base URL (default: SERVER_URL env var or http://localhost:3000)")
}

// newClient builds the API client from flags and environment config.
// The --server flag wins over SERVER_URL.
func newClient(cfg *config.Config) *client.Client {
	url := cfg.Client.ServerURL
	if serverURL != "" {
		url = serverURL
	}
	return client.New(url, &http.Client{Timeout: cfg.Client.Timeout})
}
