package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vadiminshakov/deepyami/llm"
)

var (
	translateTarget string
	translateStyle  string
	translateModel  string
	proofreadFlag   bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text from the command line",
	Long: `Translate reads text from the arguments, or from stdin when no arguments are
given, and prints the translation to stdout. The model and API key come from
the saved configuration unless overridden with --model and the
DEEPYAMI_*_API_KEY environment variables.`,
	Example: `  deepyami translate -t Japanese "Good morning"
  cat draft.txt | deepyami translate -t English -s 同僚
  deepyami translate --proofread "Their going to the park tommorow"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		if translateModel != "" {
			cfg.SetModelType(translateModel)
			if cfg.ModelType != translateModel {
				return fmt.Errorf("unknown model type %q", translateModel)
			}
		}

		if !cfg.IsConfigured() {
			return fmt.Errorf("no model or API key configured, run the GUI settings or set a DEEPYAMI_*_API_KEY variable")
		}

		text, err := inputText(args)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("nothing to translate")
		}

		client, err := llm.NewClient(cfg.ModelType, cfg.CurrentAPIKey())
		if err != nil {
			return err
		}
		translator := llm.NewTranslator(client, cfg.ModelType)

		ctx := cmd.Context()
		var result string
		if proofreadFlag {
			result, err = translator.Proofread(ctx, text, translateStyle)
		} else {
			result, err = translator.Translate(ctx, text, translateTarget, translateStyle)
		}
		if err != nil {
			return err
		}

		fmt.Println(result)
		return nil
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify the configured model and API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		if !cfg.IsConfigured() {
			return fmt.Errorf("no model or API key configured")
		}

		translator, err := newTranslator(cfg)
		if err != nil {
			return err
		}

		ok, msg := translator.TestConnection(context.Background())
		fmt.Println(msg)
		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func inputText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func init() {
	translateCmd.Flags().StringVarP(&translateTarget, "to", "t", "English", "target language")
	translateCmd.Flags().StringVarP(&translateStyle, "style", "s", "ビジネス", "translation style (ビジネス, 同僚, 友人)")
	translateCmd.Flags().StringVarP(&translateModel, "model", "m", "", "model type override (gpt, gpt-mini, claude, claude-haiku, gemini, gemini-flash)")
	translateCmd.Flags().BoolVar(&proofreadFlag, "proofread", false, "proofread instead of translating")

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(testCmd)
}
