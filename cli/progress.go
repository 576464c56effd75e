package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Progress commands",
	Long:  `Review your study progress per subject and overall.`,
}

var progressOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show progress overview",
	Long:  `Show per-subject completion and the overall total across all subjects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		greetBody, err := authorizedRequest("GET", "/users/greeting", nil)
		if err != nil {
			return err
		}
		var greet struct {
			Greeting string `json:"greeting"`
			Emoji    string `json:"emoji"`
			Username string `json:"username"`
		}
		json.Unmarshal(greetBody, &greet)
		fmt.Printf("%s, %s! %s\n\n", greet.Greeting, greet.Username, greet.Emoji)

		body, err := authorizedRequest("GET", "/progress/overview", nil)
		if err != nil {
			return err
		}

		var overview struct {
			Subjects []struct {
				Subject struct {
					ID         string    `json:"id"`
					Title      string    `json:"title"`
					LastOpened time.Time `json:"last_opened"`
				} `json:"subject"`
				CompletedChapters int     `json:"completed_chapters"`
				TotalChapters     int     `json:"total_chapters"`
				Percentage        float64 `json:"percentage"`
			} `json:"subjects"`
			CompletedChapters int     `json:"completed_chapters"`
			TotalChapters     int     `json:"total_chapters"`
			Percentage        float64 `json:"percentage"`
		}
		json.Unmarshal(body, &overview)

		if len(overview.Subjects) == 0 {
			fmt.Println("No subjects yet.")
			fmt.Println("Add some: studytrack subject add \"Math, Physics\"")
			return nil
		}

		fmt.Println("Progress Overview:")
		fmt.Println("------------------")
		for _, sp := range overview.Subjects {
			fmt.Printf("%-30s %3d/%-3d  %6.1f%%\n", sp.Subject.Title, sp.CompletedChapters, sp.TotalChapters, sp.Percentage)
		}
		fmt.Println("------------------")
		fmt.Printf("%-30s %3d/%-3d  %6.1f%%\n", "Total", overview.CompletedChapters, overview.TotalChapters, overview.Percentage)

		return nil
	},
}

var progressSubjectCmd = &cobra.Command{
	Use:   "subject [subject-id]",
	Short: "Show progress for one subject",
	Long:  `Show completion counts for a single subject.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := authorizedRequest("GET", "/subjects/"+args[0]+"/progress", nil)
		if err != nil {
			return err
		}

		var sp struct {
			Subject struct {
				Title string `json:"title"`
			} `json:"subject"`
			CompletedChapters int     `json:"completed_chapters"`
			TotalChapters     int     `json:"total_chapters"`
			Percentage        float64 `json:"percentage"`
		}
		json.Unmarshal(body, &sp)

		fmt.Printf("%s: %d/%d chapters completed (%.1f%%)\n", sp.Subject.Title, sp.CompletedChapters, sp.TotalChapters, sp.Percentage)
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressOverviewCmd)
	progressCmd.AddCommand(progressSubjectCmd)
}
