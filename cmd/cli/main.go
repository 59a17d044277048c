package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledgergen-cli",
		Short: "LedgerGen CLI tool",
		Long:  `A command line interface for interacting with the LedgerGen API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the LedgerGen API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(recordsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <charge-id>",
		Short: "Preview the ledger of a charge without persisting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postGeneration(args[0], false)
		},
	}
}

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <charge-id>",
		Short: "Generate and persist the ledger of a charge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postGeneration(args[0], true)
		},
	}
}

func batchCmd() *cobra.Command {
	var insert bool

	cmd := &cobra.Command{
		Use:   "batch <charge-id>...",
		Short: "Generate ledgers for many charges in one sweep",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(map[string][]string{"charge_ids": args})
			if err != nil {
				return err
			}

			url := baseURL + "/api/v1/charges/ledger:batch"
			if insert {
				url += "?insert=true"
			}

			return doRequest(http.MethodPost, url, body)
		},
	}

	cmd.Flags().BoolVar(&insert, "insert", false, "Persist the generated records")

	return cmd
}

func recordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records <charge-id>",
		Short: "List the stored ledger records of a charge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, baseURL+"/api/v1/charges/"+args[0]+"/ledger-records", nil)
		},
	}
}

func postGeneration(chargeID string, insert bool) error {
	url := baseURL + "/api/v1/charges/" + chargeID + "/ledger"
	if insert {
		url += "?insert=true"
	}

	return doRequest(http.MethodPost, url, nil)
}

func doRequest(method, url string, body []byte) error {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(payload))
	}

	var parsed any
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	printJSON(parsed)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to format output: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
