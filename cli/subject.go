package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/studytrack/studytrack/cli/config"
)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Subject management commands",
	Long:  `Create, list, rename, open, and remove study subjects.`,
}

var subjectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your subjects",
	Long:  `List all your subjects, most recently opened first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := authorizedRequest("GET", "/subjects", nil)
		if err != nil {
			return err
		}

		var listResp struct {
			Subjects []struct {
				ID         string    `json:"id"`
				Title      string    `json:"title"`
				LastOpened time.Time `json:"last_opened"`
			} `json:"subjects"`
			Count int `json:"count"`
		}
		json.Unmarshal(body, &listResp)

		if listResp.Count == 0 {
			fmt.Println("No subjects yet.")
			fmt.Println("Add some: studytrack subject add \"Math, Physics\"")
			return nil
		}

		fmt.Printf("Your subjects (%d):\n\n", listResp.Count)
		for i, subject := range listResp.Subjects {
			fmt.Printf("%d. %s\n", i+1, subject.Title)
			fmt.Printf("   ID: %s\n", subject.ID)
			if subject.LastOpened.Unix() == 0 {
				fmt.Println("   Last opened: never")
			} else {
				fmt.Printf("   Last opened: %s\n", subject.LastOpened.Format("2006-01-02 15:04:05 MST"))
			}
			fmt.Println()
		}

		return nil
	},
}

var subjectAddCmd = &cobra.Command{
	Use:   "add [titles]",
	Short: "Add subjects",
	Long:  `Add one or more subjects. Pass a single title or a comma-separated list, e.g. "Math, Physics, History".`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reqBody := map[string]string{"titles": args[0]}
		jsonData, _ := json.Marshal(reqBody)

		body, err := authorizedRequest("POST", "/subjects", bytes.NewBuffer(jsonData))
		if err != nil {
			return err
		}

		var batchResp batchResponse
		json.Unmarshal(body, &batchResp)
		printBatchResults(batchResp)

		return nil
	},
}

var subjectRenameCmd = &cobra.Command{
	Use:   "rename [subject-id] [new-title]",
	Short: "Rename a subject",
	Long:  `Rename an existing subject.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reqBody := map[string]string{"title": args[1]}
		jsonData, _ := json.Marshal(reqBody)

		if _, err := authorizedRequest("PUT", "/subjects/"+args[0], bytes.NewBuffer(jsonData)); err != nil {
			return err
		}

		printSuccess(fmt.Sprintf("Renamed subject to %q", args[1]))
		return nil
	},
}

var subjectOpenCmd = &cobra.Command{
	Use:   "open [subject-id]",
	Short: "Open a subject",
	Long:  `Mark a subject as opened. Opened subjects move to the front of your list.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := authorizedRequest("POST", "/subjects/"+args[0]+"/open", nil)
		if err != nil {
			return err
		}

		var subject struct {
			Title      string    `json:"title"`
			LastOpened time.Time `json:"last_opened"`
		}
		json.Unmarshal(body, &subject)

		printSuccess(fmt.Sprintf("Opened %q", subject.Title))
		fmt.Printf("Last opened: %s\n", subject.LastOpened.Format("2006-01-02 15:04:05 MST"))
		return nil
	},
}

var subjectRemoveCmd = &cobra.Command{
	Use:   "remove [subject-id]",
	Short: "Remove a subject",
	Long:  `Remove a subject. Its chapters are not deleted automatically.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := authorizedRequest("DELETE", "/subjects/"+args[0], nil); err != nil {
			return err
		}

		printSuccess("Subject removed")
		return nil
	},
}

// authorizedRequest performs an authenticated API call and returns the body
// for any 2xx status. Non-2xx responses are turned into errors using the
// server's error message.
func authorizedRequest(method, path string, reqBody io.Reader) ([]byte, error) {
	cfg, err := config.Load()
	if err != nil {
		printError("Configuration not initialized")
		fmt.Println("Run: studytrack init")
		return nil, err
	}

	if cfg.User.Token == "" {
		printError("You are not logged in")
		return nil, fmt.Errorf("please login first: studytrack auth login")
	}

	serverURL, err := config.GetServerURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, serverURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.User.Token)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		printError("Server connection error")
		fmt.Println("Check server status: studytrack system info")
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]string
		json.Unmarshal(body, &errResp)
		if errResp["error"] != "" {
			printError(errResp["error"])
			return nil, fmt.Errorf("%s", errResp["error"])
		}
		return nil, fmt.Errorf("server returned status: %d", resp.StatusCode)
	}

	return body, nil
}

type batchResponse struct {
	Created int `json:"created"`
	Failed  int `json:"failed"`
	Results []struct {
		Title string `json:"title"`
		OK    bool   `json:"ok"`
		ID    string `json:"id"`
		Error string `json:"error"`
	} `json:"results"`
}

// printBatchResults renders a create-batch outcome. Partial failures list
// the failing titles so the user can retry just those.
func printBatchResults(resp batchResponse) {
	if resp.Failed == 0 {
		printSuccess(fmt.Sprintf("Created %d item(s)", resp.Created))
	} else if resp.Created == 0 {
		printError(fmt.Sprintf("All %d item(s) failed", resp.Failed))
	} else {
		printInfo(fmt.Sprintf("Created %d item(s), %d failed", resp.Created, resp.Failed))
	}

	for _, r := range resp.Results {
		if r.OK {
			fmt.Printf("  ✓ %s (ID: %s)\n", r.Title, r.ID)
		} else {
			fmt.Printf("  ✗ %s: %s\n", r.Title, r.Error)
		}
	}
}

func init() {
	subjectCmd.AddCommand(subjectListCmd)
	subjectCmd.AddCommand(subjectAddCmd)
	subjectCmd.AddCommand(subjectRenameCmd)
	subjectCmd.AddCommand(subjectOpenCmd)
	subjectCmd.AddCommand(subjectRemoveCmd)
}
