package cli

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
	importInput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data",
	Long:  `Export your subjects and progress to a file.`,
}

var exportSubjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Export subjects",
	Long:  `Export your subjects with their completion counts to JSON or CSV format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := authorizedRequest("GET", "/progress/overview", nil)
		if err != nil {
			return err
		}

		var overview struct {
			Subjects []struct {
				Subject struct {
					ID    string `json:"id"`
					Title string `json:"title"`
				} `json:"subject"`
				CompletedChapters int     `json:"completed_chapters"`
				TotalChapters     int     `json:"total_chapters"`
				Percentage        float64 `json:"percentage"`
			} `json:"subjects"`
		}
		json.Unmarshal(body, &overview)

		type exportRow struct {
			SubjectID         string  `json:"subject_id"`
			Title             string  `json:"title"`
			CompletedChapters int     `json:"completed_chapters"`
			TotalChapters     int     `json:"total_chapters"`
			Percentage        float64 `json:"percentage"`
		}
		rows := make([]exportRow, 0, len(overview.Subjects))
		for _, sp := range overview.Subjects {
			rows = append(rows, exportRow{
				SubjectID:         sp.Subject.ID,
				Title:             sp.Subject.Title,
				CompletedChapters: sp.CompletedChapters,
				TotalChapters:     sp.TotalChapters,
				Percentage:        sp.Percentage,
			})
		}

		// Format output
		var outputData []byte
		switch strings.ToLower(exportFormat) {
		case "json":
			outputData, _ = json.MarshalIndent(rows, "", "  ")
		case "csv":
			var buf bytes.Buffer
			w := csv.NewWriter(&buf)
			w.Write([]string{"SubjectID", "Title", "CompletedChapters", "TotalChapters", "Percentage"})
			for _, row := range rows {
				w.Write([]string{row.SubjectID, row.Title, fmt.Sprintf("%d", row.CompletedChapters), fmt.Sprintf("%d", row.TotalChapters), fmt.Sprintf("%.1f", row.Percentage)})
			}
			w.Flush()
			outputData = buf.Bytes()
		default:
			return fmt.Errorf("unsupported format: %s", exportFormat)
		}

		// Write to file or stdout
		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, outputData, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			printSuccess(fmt.Sprintf("Subjects exported to %s", exportOutput))
		} else {
			fmt.Println(string(outputData))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import data",
	Long:  `Import subjects from a text file, one title per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if importInput == "" {
			return fmt.Errorf("input file is required (--input)")
		}

		f, err := os.Open(importInput)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		defer f.Close()

		var titles []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				titles = append(titles, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}

		if len(titles) == 0 {
			return fmt.Errorf("no titles found in %s", importInput)
		}

		reqBody := map[string]string{"titles": strings.Join(titles, ", ")}
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

func init() {
	exportSubjectsCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format (json or csv)")
	exportSubjectsCmd.Flags().StringVar(&exportOutput, "output", "", "Output file (default stdout)")
	exportCmd.AddCommand(exportSubjectsCmd)

	importCmd.Flags().StringVar(&importInput, "input", "", "Input file with one subject title per line")
}
