package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/studytrack/studytrack/cli/config"
)

var (
	logsTailLines int
	logsKeepDays  int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect local log files",
}

// logFiles returns the .log files under the configured log directory,
// newest first.
func logFiles() ([]string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(cfg.Logging.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{filepath.Join(cfg.Logging.Path, entry.Name()), info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].modTime.After(files[j].modTime) })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

var logsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show the end of the newest log file",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := logFiles()
		if err != nil {
			return err
		}
		if len(files) == 0 {
			printInfo("No log files found")
			return nil
		}

		f, err := os.Open(files[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var lines []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
			if len(lines) > logsTailLines {
				lines = lines[1:]
			}
		}

		fmt.Printf("%s:\n", filepath.Base(files[0]))
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

var logsErrorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Show error records from all log files",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := logFiles()
		if err != nil {
			return err
		}

		found := 0
		for _, path := range files {
			f, err := os.Open(path)
			if err != nil {
				continue
			}
			name := filepath.Base(path)
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := scanner.Text()
				// Matches both the text format ("[ERROR]") and the JSON one.
				if strings.Contains(line, "[ERROR]") || strings.Contains(line, `"level":"ERROR"`) {
					fmt.Printf("%s: %s\n", name, line)
					found++
				}
			}
			f.Close()
		}

		if found == 0 {
			printInfo("No errors found in logs")
		}
		return nil
	},
}

var logsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete old log files",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := logFiles()
		if err != nil {
			return err
		}

		cutoff := time.Now().AddDate(0, 0, -logsKeepDays)
		removed := 0
		for _, path := range files {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if logsKeepDays > 0 && info.ModTime().After(cutoff) {
				continue
			}
			if err := os.Remove(path); err == nil {
				removed++
			}
		}

		printSuccess(fmt.Sprintf("Deleted %d log files", removed))
		return nil
	},
}

func init() {
	logsTailCmd.Flags().IntVarP(&logsTailLines, "lines", "n", 20, "Number of lines to show")
	logsCleanCmd.Flags().IntVar(&logsKeepDays, "keep-days", 0, "Keep files newer than this many days (0 deletes all)")

	logsCmd.AddCommand(logsTailCmd)
	logsCmd.AddCommand(logsErrorsCmd)
	logsCmd.AddCommand(logsCleanCmd)
}
