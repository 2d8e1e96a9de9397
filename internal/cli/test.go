package cli

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test [name] [path]",
	Short: "Run a bot once against the admission stimulus without registering it",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name, path := args[0], args[1]

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("Failed to read %s: %v\n", path, err)
			os.Exit(1)
		}

		payload := map[string]string{"name": name}
		if strings.EqualFold(filepath.Ext(path), ".wasm") {
			payload["wasm_base64"] = base64.StdEncoding.EncodeToString(data)
		} else {
			payload["source"] = string(data)
		}

		body, _ := json.Marshal(payload)
		req, err := http.NewRequest(http.MethodPost, apiURL+"/v1/bots/test", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Failed to build request: %v\n", err)
			os.Exit(1)
		}
		req.Header.Set("Content-Type", "application/json")
		if apiKey != "" {
			req.Header.Set("X-Arena-API-Key", apiKey)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Test run failed: %v\nIs the server running?\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			fmt.Printf("Test run rejected: %s\n", resp.Status)
			io.Copy(os.Stderr, resp.Body)
			os.Exit(1)
		}

		var result struct {
			RunID         string `json:"run_id"`
			Play          string `json:"play"`
			InvalidReason string `json:"invalid_reason"`
			DurationMS    int64  `json:"duration_ms"`
		}
		json.NewDecoder(resp.Body).Decode(&result)

		fmt.Printf("run %s: played %s (%dms)\n", result.RunID, result.Play, result.DurationMS)
		if result.InvalidReason != "" {
			fmt.Printf("invalid: %s\n", result.InvalidReason)
		}
	},
}

func init() {
	RootCmd.AddCommand(testCmd)
}
