package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Manage updates",
	Long:  `Check for and install updates for the StudyTrack CLI.`,
}

var updateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check for updates",
	Long:  `Check if a new version of StudyTrack CLI is available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking for updates...")

		client := http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get("https://api.github.com/repos/studytrack/studytrack/releases/latest")
		if err != nil {
			printError("Failed to check for updates (Network error)")
			return nil // Don't fail hard on update check
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			var release struct {
				TagName string `json:"tag_name"`
				Body    string `json:"body"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&release); err == nil {
				currentVersion := rootCmd.Version
				if release.TagName != currentVersion && release.TagName != "v"+currentVersion {
					printSuccess(fmt.Sprintf("New version available: %s", release.TagName))
					fmt.Println("\nRelease Notes:")
					fmt.Println(release.Body)
					fmt.Println("\nTo install: studytrack update install")
				} else {
					printSuccess("You are using the latest version.")
				}
				return nil
			}
		}

		fmt.Println("Could not determine latest version.")
		return nil
	},
}

var updateInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install latest version",
	Long:  `Download and install the latest version of StudyTrack CLI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Installing latest version for %s/%s...\n", runtime.GOOS, runtime.GOARCH)

		fmt.Println("\nAutomatic update is not yet configured.")
		fmt.Println("Please download the latest release from:")
		fmt.Println("  https://github.com/studytrack/studytrack/releases/latest")

		return nil
	},
}

func init() {
	updateCmd.AddCommand(updateCheckCmd)
	updateCmd.AddCommand(updateInstallCmd)
}
