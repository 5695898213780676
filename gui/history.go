package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/vadiminshakov/deepyami/history"
)

// showHistory opens a window listing recent translations. Selecting an entry
// restores the source/result pair into the editor panes.
func (g *App) showHistory() {
	if g.store == nil {
		dialog.ShowInformation("翻訳履歴", "履歴ストアが利用できません", g.window)
		return
	}

	entries, err := g.store.Recent(historyWindowSize)
	if err != nil {
		dialog.ShowError(err, g.window)
		return
	}

	if len(entries) == 0 {
		dialog.ShowInformation("翻訳履歴", "履歴はまだありません", g.window)
		return
	}

	win := g.app.NewWindow("翻訳履歴")
	win.Resize(fyne.NewSize(600, 400))
	win.CenterOnScreen()

	list := widget.NewList(
		func() int { return len(entries) },
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			e := entries[i]
			label := obj.(*widget.Label)
			label.SetText(e.CreatedAt.Local().Format("2006-01-02 15:04") + "  " + summarize(e))
		},
	)

	list.OnSelected = func(i widget.ListItemID) {
		e := entries[i]

		g.suppressChanges = true
		g.sourceEntry.SetText(e.SourceText)
		g.targetEntry.SetText(e.ResultText)
		g.suppressChanges = false

		if e.TargetLang != "" {
			g.targetLangSelect.SetSelected(e.TargetLang)
		}
		if e.Style != "" {
			g.styleSelect.SetSelected(e.Style)
		}

		g.statusLabel.SetText("履歴から復元しました")
		win.Close()
	}

	win.SetContent(container.NewBorder(
		widget.NewLabel("クリックでエディタに復元"),
		nil, nil, nil,
		list,
	))
	win.Show()
}

func summarize(e history.Entry) string {
	text := e.SourceText
	runes := []rune(text)
	if len(runes) > 40 {
		text = string(runes[:40]) + "…"
	}

	if e.Kind == history.KindProofread {
		return "[校正] " + text
	}
	return "[" + e.TargetLang + "] " + text
}
