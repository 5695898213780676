package cmd

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vadiminshakov/deepyami/config"
	"github.com/vadiminshakov/deepyami/gui"
	"github.com/vadiminshakov/deepyami/history"
	"github.com/vadiminshakov/deepyami/llm"
	"github.com/vadiminshakov/deepyami/logging"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "deepyami",
	Short: "Two-pane desktop translator backed by LLM providers",
	Long: `DeepYami is a desktop translation utility. Text typed into the left pane is
sent to the selected LLM provider (OpenAI, Anthropic or Google) through a
prompt template and the translation appears in the right pane.

Run without arguments to open the GUI, or use "deepyami translate" for a
headless one-shot translation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGUI()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

func setup() (*config.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	logging.Setup(dir, debugFlag)

	return config.LoadDefault()
}

// newTranslator adapts the llm package to the gui.TranslatorFactory shape.
func newTranslator(cfg *config.Config) (gui.Translator, error) {
	client, err := llm.NewClient(cfg.ModelType, cfg.CurrentAPIKey())
	if err != nil {
		return nil, err
	}
	return llm.NewTranslator(client, cfg.ModelType), nil
}

func runGUI() error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	var store gui.History
	if dir, err := config.Dir(); err == nil {
		s, err := history.Open(filepath.Join(dir, "history.db"))
		if err != nil {
			logrus.WithError(err).Warn("history store unavailable, continuing without it")
		} else {
			defer s.Close()
			if err := s.Prune(historyCap); err != nil {
				logrus.WithError(err).Warn("failed to prune history")
			}
			store = s
		}
	}

	gui.NewApp(cfg, store, newTranslator).Run()
	return nil
}

const historyCap = 1000
