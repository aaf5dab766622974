package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-rcp/rcpdaemon/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration operations (get/set/list)",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Display a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _, err := loadDocument()
		if err != nil {
			return err
		}
		key := args[0]
		value, err := config.Get(doc, key)
		if err != nil {
			return err
		}
		f := newFormatter(doc)
		if f.JSON {
			return f.Emit(map[string]string{"key": key, "value": value})
		}
		f.Plain(fmt.Sprintf("%s = %s", key, value))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, path, err := loadDocument()
		if err != nil {
			return err
		}
		key, value := args[0], args[1]

		updated, err := config.Set(doc, key, value)
		if err != nil {
			return err
		}
		if err := config.Save(updated, path); err != nil {
			return err
		}

		f := newFormatter(updated)
		if config.IsSecret(key) {
			f.Success(fmt.Sprintf("Updated %s", key))
		} else {
			f.Success(fmt.Sprintf("Updated %s = %s", key, value))
		}
		return nil
	},
}

// sectionHeadings names the list sections in display order
var sectionHeadings = map[string]string{
	"connection": "Connection settings:",
	"auth":       "Auth settings:",
	"output":     "Output settings:",
	"other":      "Other settings:",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display all configuration values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _, err := loadDocument()
		if err != nil {
			return err
		}
		entries := config.List(doc)
		f := newFormatter(doc)
		if f.JSON {
			return f.Emit(entries)
		}

		section := ""
		for _, e := range entries {
			if e.Section != section {
				section = e.Section
				f.Info(sectionHeadings[section])
			}
			f.Info(fmt.Sprintf("  %s = %s", e.Key, e.Value))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configListCmd)
	rootCmd.AddCommand(configCmd)
}
