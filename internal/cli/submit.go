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

var submitCmd = &cobra.Command{
	Use:   "submit [name] [path]",
	Short: "Submit a bot to the registry",
	Long: `Submits a bot from a source file. A .wasm file is registered as a
native bot; any other extension is treated as scripted source, run
through the interpreter on the server side.`,
	Args: cobra.ExactArgs(2),
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
		req, err := http.NewRequest(http.MethodPost, apiURL+"/v1/bots", bytes.NewReader(body))
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
			fmt.Printf("Submit failed: %v\nIs the server running?\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			fmt.Printf("Submit rejected: %s\n", resp.Status)
			io.Copy(os.Stderr, resp.Body)
			os.Exit(1)
		}

		var created struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}
		json.NewDecoder(resp.Body).Decode(&created)
		fmt.Printf("Bot %q registered with id %d\n", created.Name, created.ID)
	},
}

func init() {
	RootCmd.AddCommand(submitCmd)
}
