package gui

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/vadiminshakov/deepyami/config"
)

// modelChoices maps the radio labels to model types, in display order.
var modelChoices = []struct {
	Label string
	Value string
}{
	{"GPT-4.1 (OpenAI)", config.ModelGPT},
	{"GPT-4.1 mini (OpenAI)", config.ModelGPTMini},
	{"Claude Sonnet 4.5 (Anthropic)", config.ModelClaude},
	{"Claude Haiku 4.5 (Anthropic)", config.ModelClaudeHaiku},
	{"Gemini 2.5 Pro (Google)", config.ModelGemini},
	{"Gemini 2.5 Flash (Google)", config.ModelGeminiFlash},
}

func modelLabels() []string {
	labels := make([]string, len(modelChoices))
	for i, c := range modelChoices {
		labels[i] = c.Label
	}
	return labels
}

func modelValue(label string) string {
	for _, c := range modelChoices {
		if c.Label == label {
			return c.Value
		}
	}
	return ""
}

func modelLabel(value string) string {
	for _, c := range modelChoices {
		if c.Value == value {
			return c.Label
		}
	}
	return ""
}

func (g *App) showSettings() {
	win := g.app.NewWindow("API設定")
	win.Resize(fyne.NewSize(500, 560))
	win.CenterOnScreen()

	modelRadio := widget.NewRadioGroup(modelLabels(), nil)
	modelRadio.SetSelected(modelLabel(g.cfg.ModelType))

	openaiEntry := widget.NewPasswordEntry()
	openaiEntry.SetText(g.cfg.APIKeys[config.ProviderOpenAI])
	anthropicEntry := widget.NewPasswordEntry()
	anthropicEntry.SetText(g.cfg.APIKeys[config.ProviderAnthropic])
	googleEntry := widget.NewPasswordEntry()
	googleEntry.SetText(g.cfg.APIKeys[config.ProviderGoogle])

	autoTranslateCheck := widget.NewCheck("自動翻訳を有効にする（編集後2秒で自動的に翻訳）", nil)
	autoTranslateCheck.SetChecked(g.cfg.AutoTranslateEnabled)

	// Builds an untouched config copy from the dialog state, used by both the
	// connection test and save. Abort with an error when the selected model's
	// key is blank.
	collect := func() (*config.Config, error) {
		modelType := modelValue(modelRadio.Selected)
		if modelType == "" {
			return nil, errors.New("LLMモデルを選択してください")
		}

		cfg := config.Default()
		cfg.SetModelType(modelType)
		cfg.SetAPIKey(config.ProviderOpenAI, openaiEntry.Text)
		cfg.SetAPIKey(config.ProviderAnthropic, anthropicEntry.Text)
		cfg.SetAPIKey(config.ProviderGoogle, googleEntry.Text)

		if cfg.CurrentAPIKey() == "" {
			switch cfg.Provider() {
			case config.ProviderOpenAI:
				return nil, errors.New("OpenAI API Keyを入力してください")
			case config.ProviderAnthropic:
				return nil, errors.New("Anthropic API Keyを入力してください")
			case config.ProviderGoogle:
				return nil, errors.New("Google API Keyを入力してください")
			}
		}

		return cfg, nil
	}

	testBtn := widget.NewButton("接続テスト", func() {
		staged, err := collect()
		if err != nil {
			dialog.ShowError(err, win)
			return
		}

		translator, err := g.newTranslator(staged)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}

		go func() {
			ok, msg := translator.TestConnection(context.Background())
			fyne.Do(func() {
				if ok {
					dialog.ShowInformation("接続テスト", msg, win)
				} else {
					dialog.ShowError(errors.New(msg), win)
				}
			})
		}()
	})

	saveBtn := widget.NewButton("保存", func() {
		staged, err := collect()
		if err != nil {
			dialog.ShowError(err, win)
			return
		}

		g.cfg.SetModelType(staged.ModelType)
		g.cfg.SetAPIKey(config.ProviderOpenAI, openaiEntry.Text)
		g.cfg.SetAPIKey(config.ProviderAnthropic, anthropicEntry.Text)
		g.cfg.SetAPIKey(config.ProviderGoogle, googleEntry.Text)
		g.cfg.AutoTranslateEnabled = autoTranslateCheck.Checked

		if err := g.cfg.Save(); err != nil {
			dialog.ShowError(err, win)
			return
		}

		g.initTranslator()
		g.updateUIState()
		win.Close()
	})
	saveBtn.Importance = widget.HighImportance

	cancelBtn := widget.NewButton("キャンセル", win.Close)

	content := container.NewVBox(
		widget.NewLabelWithStyle("LLMモデルとAPIキーの設定", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewCard("LLMモデル", "", modelRadio),
		widget.NewCard("APIキー", "", container.NewVBox(
			widget.NewLabel("OpenAI API Key:"), openaiEntry,
			widget.NewLabel("Anthropic API Key:"), anthropicEntry,
			widget.NewLabel("Google API Key:"), googleEntry,
		)),
		widget.NewCard("オプション", "", autoTranslateCheck),
		container.NewHBox(testBtn, widget.NewSeparator(), cancelBtn, saveBtn),
	)

	win.SetContent(container.NewVScroll(content))
	win.Show()
}
