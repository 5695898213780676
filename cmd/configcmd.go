package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vadiminshakov/deepyami/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings (API keys masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		model := cfg.ModelType
		if model == "" {
			model = "(not set)"
		}
		fmt.Printf("model_type:        %s\n", model)
		for _, provider := range []string{config.ProviderOpenAI, config.ProviderAnthropic, config.ProviderGoogle} {
			fmt.Printf("api_keys.%-10s %s\n", provider+":", maskKey(cfg.APIKeys[provider]))
		}
		fmt.Printf("target_lang:       %s\n", cfg.LastTargetLang)
		fmt.Printf("style:             %s\n", cfg.TranslationStyle)
		fmt.Printf("auto_translate:    %v\n", cfg.AutoTranslateEnabled)
		return nil
	},
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
