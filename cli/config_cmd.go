package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/studytrack/studytrack/cli/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify StudyTrack CLI configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: studytrack init")
			return err
		}

		fmt.Println("Current Configuration:")
		fmt.Println("----------------------")

		v := reflect.ValueOf(*cfg)
		t := v.Type()

		for i := 0; i < v.NumField(); i++ {
			field := v.Field(i)
			typeField := t.Field(i)

			fmt.Printf("[%s]\n", typeField.Name)
			if field.Kind() == reflect.Struct {
				for j := 0; j < field.NumField(); j++ {
					subField := field.Field(j)
					subTypeField := field.Type().Field(j)
					tag := subTypeField.Tag.Get("yaml")
					if tag == "" {
						tag = subTypeField.Name
					}
					fmt.Printf("  %s: %v\n", tag, subField.Interface())
				}
			}
			fmt.Println()
		}

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long:  `Set a configuration value. Key should be in format 'section.key' (e.g., logging.level).`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := args[1]

		cfg, err := config.Load()
		if err != nil {
			printError("Configuration not initialized")
			return err
		}

		parts := strings.Split(key, ".")
		if len(parts) != 2 {
			return fmt.Errorf("invalid key format. Use 'section.key'")
		}

		section := strings.ToLower(parts[0])
		k := strings.ToLower(parts[1])

		updated := false

		switch section {
		case "server":
			switch k {
			case "host":
				cfg.Server.Host = value
				updated = true
			case "http_port":
				if v, err := strconv.Atoi(value); err == nil {
					cfg.Server.HTTPPort = v
					updated = true
				} else {
					return fmt.Errorf("invalid integer for http_port")
				}
			case "websocket_port":
				if v, err := strconv.Atoi(value); err == nil {
					cfg.Server.WebSocketPort = v
					updated = true
				} else {
					return fmt.Errorf("invalid integer for websocket_port")
				}
			}
		case "database":
			switch k {
			case "path":
				cfg.Database.Path = value
				updated = true
			}
		case "logging":
			switch k {
			case "level":
				cfg.Logging.Level = value
				updated = true
			case "path":
				cfg.Logging.Path = value
				updated = true
			}
		}

		if !updated {
			return fmt.Errorf("unknown configuration key: %s", key)
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		printSuccess(fmt.Sprintf("Updated %s to %s", key, value))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
