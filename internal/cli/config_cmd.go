package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change CLI configuration",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSetCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig()
			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, cfg)
			}

			patterns := "**/*.html"
			if len(cfg.Patterns) > 0 {
				patterns = strings.Join(cfg.Patterns, ", ")
			}
			logFile := cfg.LogFile
			if logFile == "" {
				logFile = "(stderr)"
			}
			fmt.Fprintf(out, "API base:  %s\n", cfg.APIBase)
			fmt.Fprintf(out, "Site dir:  %s\n", cfg.SiteDir)
			fmt.Fprintf(out, "Out dir:   %s\n", cfg.OutDir)
			fmt.Fprintf(out, "Patterns:  %s\n", patterns)
			fmt.Fprintf(out, "Log file:  %s\n", logFile)
			return nil
		},
	}
}

// configKeys lists the keys accepted by config set.
var configKeys = []string{"api_base", "site_dir", "out_dir", "patterns", "log_file"}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a configuration value",
		Long: "Persist a configuration value. Keys: " + strings.Join(configKeys, ", ") + ". " +
			"Patterns are comma separated; an empty value clears the key.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := setConfigValue(&cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := saveConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
			return nil
		},
	}
}

func setConfigValue(cfg *CLIConfig, key, value string) error {
	switch key {
	case "api_base":
		cfg.APIBase = strings.TrimRight(value, "/")
	case "site_dir":
		cfg.SiteDir = value
	case "out_dir":
		cfg.OutDir = value
	case "log_file":
		cfg.LogFile = value
	case "patterns":
		cfg.Patterns = nil
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Patterns = append(cfg.Patterns, p)
			}
		}
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(configKeys, ", "))
	}
	return nil
}
