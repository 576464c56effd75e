package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	targetDate     string
	targetChapters int
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Study target commands",
	Long:  `Set and review study targets. A target fixes a daily chapter pace at creation time.`,
}

var targetSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set a study target",
	Long:  `Set a target: finish a number of chapters by a date. The required chapters-per-day pace is computed once and stored with the target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if targetDate == "" {
			return fmt.Errorf("target date is required (--date, format YYYY-MM-DD)")
		}
		if targetChapters <= 0 {
			return fmt.Errorf("chapter count is required (--chapters)")
		}

		date, err := time.Parse("2006-01-02", targetDate)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", targetDate)
		}

		reqBody := map[string]interface{}{
			"total_chapters": targetChapters,
			"target_date":    date.Format(time.RFC3339),
		}
		jsonData, _ := json.Marshal(reqBody)

		body, err := authorizedRequest("POST", "/targets", bytes.NewBuffer(jsonData))
		if err != nil {
			return err
		}

		var target struct {
			ID             string    `json:"id"`
			TotalChapters  int       `json:"total_chapters"`
			ChaptersPerDay float64   `json:"chapters_per_day"`
			TargetDate     time.Time `json:"target_date"`
		}
		json.Unmarshal(body, &target)

		printSuccess("Target set!")
		fmt.Printf("Finish %d chapters by %s\n", target.TotalChapters, target.TargetDate.Format("2006-01-02"))
		fmt.Printf("Required pace: %.2f chapters/day\n", target.ChaptersPerDay)
		return nil
	},
}

var targetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your targets",
	Long:  `List all your study targets, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := authorizedRequest("GET", "/targets", nil)
		if err != nil {
			return err
		}

		var listResp struct {
			Targets []struct {
				ID             string    `json:"id"`
				TotalChapters  int       `json:"total_chapters"`
				ChaptersPerDay float64   `json:"chapters_per_day"`
				TargetDate     time.Time `json:"target_date"`
				CreatedAt      time.Time `json:"created_at"`
			} `json:"targets"`
			Count int `json:"count"`
		}
		json.Unmarshal(body, &listResp)

		if listResp.Count == 0 {
			fmt.Println("No targets yet.")
			fmt.Println("Set one: studytrack target set --chapters 20 --date 2026-09-30")
			return nil
		}

		fmt.Printf("Your targets (%d):\n\n", listResp.Count)
		for i, target := range listResp.Targets {
			fmt.Printf("%d. %d chapters by %s\n", i+1, target.TotalChapters, target.TargetDate.Format("2006-01-02"))
			fmt.Printf("   Pace: %.2f chapters/day (set %s)\n", target.ChaptersPerDay, target.CreatedAt.Format("2006-01-02"))
			fmt.Printf("   ID: %s\n", target.ID)
			fmt.Println()
		}

		return nil
	},
}

func init() {
	targetSetCmd.Flags().StringVar(&targetDate, "date", "", "Target date (YYYY-MM-DD)")
	targetSetCmd.Flags().IntVar(&targetChapters, "chapters", 0, "Total chapters to finish")

	targetCmd.AddCommand(targetSetCmd)
	targetCmd.AddCommand(targetListCmd)
}
