package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/studytrack/studytrack/cli/config"
)

var rootCmd = &cobra.Command{
	Use:     "studytrack",
	Short:   "StudyTrack CLI - track your study progress",
	Long:    `StudyTrack is a study tracker. Organize subjects, mark chapters as completed, set daily targets, and see how far along you are.`,
	Version: "1.0.0",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create the StudyTrack configuration directory and default config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(configPath); err == nil {
			printInfo(fmt.Sprintf("Configuration already exists at %s", configPath))
			return nil
		}

		if err := config.Init(); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}

		printSuccess("Configuration initialized!")
		fmt.Printf("Config file: %s\n", configPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  studytrack auth register --username <name> --email <email>")
		fmt.Println("  studytrack subject add \"Math, Physics, History\"")

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printSuccess(msg string) {
	fmt.Printf("✓ %s\n", msg)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "✗ %s\n", msg)
}

func printInfo(msg string) {
	fmt.Printf("ℹ %s\n", msg)
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(subjectCmd)
	rootCmd.AddCommand(chapterCmd)
	rootCmd.AddCommand(targetCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(systemCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
