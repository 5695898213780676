package gui

import (
	"context"
	"errors"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/vadiminshakov/deepyami/config"
	"github.com/vadiminshakov/deepyami/history"
	"github.com/vadiminshakov/deepyami/llm"
)

// Translator runs the blocking provider round trips.
type Translator interface {
	Translate(ctx context.Context, text, targetLang, style string) (string, error)
	Proofread(ctx context.Context, text, style string) (string, error)
	TestConnection(ctx context.Context) (bool, string)
	ModelType() string
}

// TranslatorFactory builds a Translator from the current config. It is called
// again whenever the settings dialog saves.
type TranslatorFactory func(cfg *config.Config) (Translator, error)

// History is the subset of the history store the GUI needs. A nil History
// disables the log without affecting translation.
type History interface {
	Append(e history.Entry) (history.Entry, error)
	Recent(n int) ([]history.Entry, error)
	Lookup(sourceText, targetLang, style, modelType string) (history.Entry, error)
}

const (
	autoTranslateDelay = 2 * time.Second
	historyWindowSize  = 50
)

type App struct {
	app    fyne.App
	window fyne.Window

	cfg           *config.Config
	translator    Translator
	newTranslator TranslatorFactory
	store         History

	sourceEntry      *widget.Entry
	targetEntry      *widget.Entry
	targetLangSelect *widget.Select
	styleSelect      *widget.Select
	translateBtn     *widget.Button
	proofreadBtn     *widget.Button
	copyBtn          *widget.Button
	statusLabel      *widget.Label
	banner           *fyne.Container

	debounceTimer   *time.Timer
	suppressChanges bool
	busy            bool
}

func NewApp(cfg *config.Config, store History, factory TranslatorFactory) *App {
	myApp := app.NewWithID("com.vadiminshakov.deepyami")

	window := myApp.NewWindow("DeepYami翻訳アプリ")
	window.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))
	window.CenterOnScreen()

	return &App{
		app:           myApp,
		window:        window,
		cfg:           cfg,
		newTranslator: factory,
		store:         store,
	}
}

func (g *App) Run() {
	g.setupMenu()
	g.setupUI()

	if g.cfg.IsConfigured() {
		g.initTranslator()
	}

	g.restoreLastTexts()
	g.updateUIState()

	g.window.SetCloseIntercept(g.onClose)
	g.window.ShowAndRun()
}

func (g *App) setupMenu() {
	fileMenu := fyne.NewMenu("ファイル",
		fyne.NewMenuItem("終了", func() { g.onClose() }),
	)

	viewMenu := fyne.NewMenu("表示",
		fyne.NewMenuItem("翻訳履歴", g.showHistory),
	)

	settingsMenu := fyne.NewMenu("設定",
		fyne.NewMenuItem("API設定", g.showSettings),
	)

	helpMenu := fyne.NewMenu("ヘルプ",
		fyne.NewMenuItem("バージョン情報", g.showAbout),
	)

	g.window.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, settingsMenu, helpMenu))
}

func (g *App) setupUI() {
	g.sourceEntry = widget.NewMultiLineEntry()
	g.sourceEntry.Wrapping = fyne.TextWrapWord
	g.sourceEntry.SetPlaceHolder("翻訳元テキストを入力...")
	g.sourceEntry.OnChanged = g.onSourceChanged

	// The result pane is display-only, the copy button reads it out.
	g.targetEntry = widget.NewMultiLineEntry()
	g.targetEntry.Wrapping = fyne.TextWrapWord
	g.targetEntry.Disable()

	g.targetLangSelect = widget.NewSelect(llm.Languages, func(lang string) {
		g.resetDebounce()
	})
	g.targetLangSelect.SetSelected(g.cfg.LastTargetLang)

	g.styleSelect = widget.NewSelect(config.Styles, nil)
	g.styleSelect.SetSelected(g.cfg.TranslationStyle)

	g.translateBtn = widget.NewButton("翻訳 →", g.onTranslate)
	g.translateBtn.Importance = widget.HighImportance
	g.proofreadBtn = widget.NewButton("校正", g.onProofread)
	g.copyBtn = widget.NewButton("翻訳結果をコピー", g.onCopyResult)

	g.statusLabel = widget.NewLabel("準備完了")

	warningLabel := widget.NewLabel("⚠ API設定を完了してください")
	openSettingsBtn := widget.NewButton("設定を開く", g.showSettings)
	g.banner = container.NewBorder(nil, nil, warningLabel, openSettingsBtn)

	leftControls := container.NewHBox(
		widget.NewLabel("翻訳先:"), g.targetLangSelect,
		widget.NewLabel("スタイル:"), g.styleSelect,
		g.translateBtn,
		g.proofreadBtn,
	)
	leftPane := container.NewBorder(
		container.NewVBox(widget.NewLabel("翻訳元テキスト"), leftControls),
		nil, nil, nil,
		g.sourceEntry,
	)

	rightPane := container.NewBorder(
		container.NewVBox(widget.NewLabel("翻訳結果"), container.NewHBox(g.copyBtn)),
		nil, nil, nil,
		g.targetEntry,
	)

	split := container.NewHSplit(leftPane, rightPane)
	split.Offset = 0.5

	content := container.NewBorder(g.banner, g.statusLabel, nil, nil, split)
	g.window.SetContent(content)
}

func (g *App) initTranslator() {
	translator, err := g.newTranslator(g.cfg)
	if err != nil {
		dialog.ShowError(err, g.window)
		g.statusLabel.SetText("翻訳サービスエラー")
		return
	}

	g.translator = translator
	g.statusLabel.SetText("翻訳サービス準備完了 (" + translator.ModelType() + ")")
}

func (g *App) updateUIState() {
	if g.cfg.IsConfigured() {
		g.banner.Hide()
		g.sourceEntry.Enable()
		g.translateBtn.Enable()
		g.proofreadBtn.Enable()
		g.targetLangSelect.Enable()
		g.styleSelect.Enable()
		g.copyBtn.Enable()
	} else {
		g.banner.Show()
		g.sourceEntry.Disable()
		g.translateBtn.Disable()
		g.proofreadBtn.Disable()
		g.targetLangSelect.Disable()
		g.styleSelect.Disable()
		g.copyBtn.Disable()
		g.statusLabel.SetText("API設定が必要です")
	}
}

func (g *App) setBusy(busy bool) {
	g.busy = busy
	if busy {
		g.translateBtn.Disable()
		g.proofreadBtn.Disable()
	} else {
		g.translateBtn.Enable()
		g.proofreadBtn.Enable()
	}
}

func (g *App) onTranslate() {
	if g.translator == nil {
		dialog.ShowError(errors.New("翻訳サービスが初期化されていません"), g.window)
		return
	}
	// The debounce can fire while a request is still in flight.
	if g.busy {
		return
	}

	sourceText := g.sourceEntry.Text
	if sourceText == "" {
		g.statusLabel.SetText("翻訳するテキストを入力してください")
		return
	}

	targetLang := g.targetLangSelect.Selected
	if targetLang == "" {
		g.statusLabel.SetText("翻訳先の言語を選択してください")
		return
	}
	style := g.styleSelect.Selected
	if style == "" {
		g.statusLabel.SetText("翻訳スタイルを選択してください")
		return
	}

	// Source language comes from model-side detection, stored blank.
	g.cfg.SetLastLanguages("", targetLang)
	g.cfg.SetTranslationStyle(style)
	if err := g.cfg.Save(); err != nil {
		logrus.WithError(err).Warn("failed to save config")
	}

	g.statusLabel.SetText("翻訳中...")
	g.setBusy(true)

	// A settings save may swap g.translator while the request runs.
	translator := g.translator
	go func() {
		if g.store != nil {
			if e, err := g.store.Lookup(sourceText, targetLang, style, translator.ModelType()); err == nil {
				fyne.Do(func() { g.showTranslation(e.ResultText) })
				return
			}
		}

		result, err := translator.Translate(context.Background(), sourceText, targetLang, style)
		if err != nil {
			fyne.Do(func() {
				g.setBusy(false)
				g.statusLabel.SetText("翻訳エラー")
				dialog.ShowError(err, g.window)
			})
			return
		}

		g.record(history.Entry{
			Kind:       history.KindTranslate,
			SourceText: sourceText,
			ResultText: result,
			TargetLang: targetLang,
			Style:      style,
			ModelType:  translator.ModelType(),
		})

		fyne.Do(func() { g.showTranslation(result) })
	}()
}

func (g *App) showTranslation(result string) {
	g.suppressChanges = true
	g.targetEntry.SetText(result)
	g.suppressChanges = false

	g.setBusy(false)
	g.statusLabel.SetText("翻訳完了")
}

func (g *App) onProofread() {
	if g.translator == nil {
		dialog.ShowError(errors.New("翻訳サービスが初期化されていません"), g.window)
		return
	}
	if g.busy {
		return
	}

	sourceText := g.sourceEntry.Text
	if sourceText == "" {
		g.statusLabel.SetText("校正するテキストを入力してください")
		return
	}
	style := g.styleSelect.Selected
	if style == "" {
		g.statusLabel.SetText("翻訳スタイルを選択してください")
		return
	}

	g.statusLabel.SetText("校正中...")
	g.setBusy(true)

	translator := g.translator
	go func() {
		result, err := translator.Proofread(context.Background(), sourceText, style)
		if err != nil {
			fyne.Do(func() {
				g.setBusy(false)
				g.statusLabel.SetText("校正エラー")
				dialog.ShowError(err, g.window)
			})
			return
		}

		g.record(history.Entry{
			Kind:       history.KindProofread,
			SourceText: sourceText,
			ResultText: result,
			Style:      style,
			ModelType:  translator.ModelType(),
		})

		fyne.Do(func() {
			// Proofreading replaces the source text in place.
			g.suppressChanges = true
			g.sourceEntry.SetText(result)
			g.suppressChanges = false

			g.setBusy(false)
			g.statusLabel.SetText("校正完了")
		})
	}()
}

func (g *App) record(e history.Entry) {
	if g.store == nil {
		return
	}
	if _, err := g.store.Append(e); err != nil {
		logrus.WithError(err).Warn("failed to record history entry")
	}
}

func (g *App) onCopyResult() {
	result := g.targetEntry.Text
	if result == "" {
		g.statusLabel.SetText("コピーする翻訳結果がありません")
		return
	}

	g.window.Clipboard().SetContent(result)
	g.statusLabel.SetText("翻訳結果をコピーしました")
}

func (g *App) onSourceChanged(string) {
	if g.suppressChanges {
		return
	}
	g.resetDebounce()
}

// resetDebounce restarts the auto-translate timer. Translation fires after
// two idle seconds, mirroring how a user pauses between edits.
func (g *App) resetDebounce() {
	if g.debounceTimer != nil {
		g.debounceTimer.Stop()
	}

	if g.translator == nil || !g.cfg.IsConfigured() || !g.cfg.AutoTranslateEnabled {
		return
	}

	g.debounceTimer = time.AfterFunc(autoTranslateDelay, func() {
		fyne.Do(func() {
			if g.sourceEntry.Text != "" && g.targetLangSelect.Selected != "" {
				g.onTranslate()
			}
		})
	})
}

func (g *App) restoreLastTexts() {
	g.suppressChanges = true
	if g.cfg.LastSourceText != "" {
		g.sourceEntry.SetText(g.cfg.LastSourceText)
	}
	if g.cfg.LastTargetText != "" {
		g.targetEntry.SetText(g.cfg.LastTargetText)
	}
	g.suppressChanges = false
}

func (g *App) onClose() {
	if g.debounceTimer != nil {
		g.debounceTimer.Stop()
	}

	g.cfg.SetLastTexts(g.sourceEntry.Text, g.targetEntry.Text)

	size := g.window.Canvas().Size()
	g.cfg.SetWindowSize(int(size.Width), int(size.Height))

	if err := g.cfg.Save(); err != nil {
		logrus.WithError(err).Warn("failed to save config on exit")
	}

	g.app.Quit()
}

func (g *App) showAbout() {
	dialog.ShowInformation(
		"バージョン情報",
		"DeepYami翻訳アプリ v1.0\n\n"+
			"複数のLLMモデルを使用した翻訳アプリケーション\n\n"+
			"対応モデル:\n"+
			"- OpenAI GPT-4.1\n"+
			"- Anthropic Claude Sonnet 4.5\n"+
			"- Google Gemini 2.5 Pro",
		g.window,
	)
}
