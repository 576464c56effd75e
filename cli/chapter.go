package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var chapterSubjectID string

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Chapter management commands",
	Long:  `Add chapters to subjects and mark them as completed.`,
}

var chapterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chapters of a subject",
	Long:  `List all chapters of a subject with completion status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if chapterSubjectID == "" {
			return fmt.Errorf("subject ID is required (--subject-id)")
		}

		body, err := authorizedRequest("GET", "/subjects/"+chapterSubjectID+"/chapters", nil)
		if err != nil {
			return err
		}

		var listResp struct {
			Chapters []struct {
				ID        string `json:"id"`
				Title     string `json:"title"`
				Completed bool   `json:"completed"`
				Progress  int    `json:"progress"`
			} `json:"chapters"`
			Count      int     `json:"count"`
			Completed  int     `json:"completed"`
			Percentage float64 `json:"percentage"`
		}
		json.Unmarshal(body, &listResp)

		if listResp.Count == 0 {
			fmt.Println("No chapters yet.")
			fmt.Printf("Add some: studytrack chapter add --subject-id %s \"Chapter 1, Chapter 2\"\n", chapterSubjectID)
			return nil
		}

		fmt.Printf("Chapters (%d/%d completed, %.1f%%):\n\n", listResp.Completed, listResp.Count, listResp.Percentage)
		for i, chapter := range listResp.Chapters {
			mark := " "
			if chapter.Completed {
				mark = "x"
			}
			fmt.Printf("%d. [%s] %s\n", i+1, mark, chapter.Title)
			fmt.Printf("   ID: %s\n", chapter.ID)
		}

		return nil
	},
}

var chapterAddCmd = &cobra.Command{
	Use:   "add [titles]",
	Short: "Add chapters to a subject",
	Long:  `Add one or more chapters to a subject. Pass a single title or a comma-separated list.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if chapterSubjectID == "" {
			return fmt.Errorf("subject ID is required (--subject-id)")
		}

		reqBody := map[string]string{"titles": args[0]}
		jsonData, _ := json.Marshal(reqBody)

		body, err := authorizedRequest("POST", "/subjects/"+chapterSubjectID+"/chapters", bytes.NewBuffer(jsonData))
		if err != nil {
			return err
		}

		var batchResp batchResponse
		json.Unmarshal(body, &batchResp)
		printBatchResults(batchResp)

		return nil
	},
}

var chapterCompleteCmd = &cobra.Command{
	Use:   "complete [chapter-id]",
	Short: "Mark a chapter as completed",
	Long:  `Mark a chapter as completed. Completed chapters count toward subject progress.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setChapterCompletion(args[0], true)
	},
}

var chapterUncompleteCmd = &cobra.Command{
	Use:   "uncomplete [chapter-id]",
	Short: "Mark a chapter as not completed",
	Long:  `Revert a chapter to not completed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setChapterCompletion(args[0], false)
	},
}

func setChapterCompletion(chapterID string, completed bool) error {
	reqBody := map[string]bool{"completed": completed}
	jsonData, _ := json.Marshal(reqBody)

	body, err := authorizedRequest("PUT", "/chapters/"+chapterID+"/completion", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	var chapter struct {
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
		Progress  int    `json:"progress"`
	}
	json.Unmarshal(body, &chapter)

	if chapter.Completed {
		printSuccess(fmt.Sprintf("Completed %q (%d%%)", chapter.Title, chapter.Progress))
	} else {
		printSuccess(fmt.Sprintf("Reverted %q (%d%%)", chapter.Title, chapter.Progress))
	}
	return nil
}

func init() {
	chapterListCmd.Flags().StringVar(&chapterSubjectID, "subject-id", "", "Subject ID")
	chapterAddCmd.Flags().StringVar(&chapterSubjectID, "subject-id", "", "Subject ID")

	chapterCmd.AddCommand(chapterListCmd)
	chapterCmd.AddCommand(chapterAddCmd)
	chapterCmd.AddCommand(chapterCompleteCmd)
	chapterCmd.AddCommand(chapterUncompleteCmd)
}
