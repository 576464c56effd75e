package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/studytrack/studytrack/cli/config"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Diagnostics",
	Long:  `Inspect the local setup and check server health.`,
}

var systemInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show local setup",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Runtime:")
		fmt.Printf("  %s/%s, %s, %d CPUs\n", runtime.GOOS, runtime.GOARCH, runtime.Version(), runtime.NumCPU())

		cfg, err := config.Load()
		if err != nil {
			printInfo("No configuration found. Run 'studytrack init' first.")
			return nil
		}

		configPath, _ := config.GetConfigPath()
		fmt.Println("\nConfiguration:")
		fmt.Printf("  File:      %s\n", configPath)
		fmt.Printf("  Database:  %s\n", cfg.Database.Path)
		fmt.Printf("  Log dir:   %s\n", cfg.Logging.Path)

		serverURL, _ := config.GetServerURL()
		fmt.Println("\nServer:")
		fmt.Printf("  API:       %s\n", serverURL)
		fmt.Printf("  WebSocket: ws://%s:%d/ws\n", cfg.Server.Host, cfg.Server.WebSocketPort)

		if cfg.User.Username != "" {
			fmt.Printf("\nLogged in as %s\n", cfg.User.Username)
		} else {
			fmt.Println("\nNot logged in")
		}
		return nil
	},
}

var systemStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL, err := config.GetServerURL()
		if err != nil {
			return err
		}

		client := http.Client{Timeout: 3 * time.Second}

		for _, probe := range []struct {
			name string
			path string
		}{
			{"Liveness", "/healthz"},
			{"Readiness", "/readyz"},
		} {
			resp, err := client.Get(serverURL + probe.path)
			if err != nil {
				printError(fmt.Sprintf("%s: unreachable (%v)", probe.name, err))
				continue
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				printSuccess(fmt.Sprintf("%s: ok", probe.name))
			} else {
				printError(fmt.Sprintf("%s: HTTP %d", probe.name, resp.StatusCode))
			}
		}

		resp, err := client.Get(serverURL + "/ws/status")
		if err != nil {
			return nil
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			var status struct {
				Count int `json:"count"`
			}
			if json.Unmarshal(body, &status) == nil {
				printInfo(fmt.Sprintf("Connected clients: %d", status.Count))
			}
		}
		return nil
	},
}

func init() {
	systemCmd.AddCommand(systemInfoCmd)
	systemCmd.AddCommand(systemStatusCmd)
}
