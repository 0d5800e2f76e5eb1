package session

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// CompletionContent builds the post-session view shown after the countdown
// reaches zero.
func CompletionContent(minutes int, onDone func()) fyne.CanvasObject {
	unit := "minutes"
	if minutes == 1 {
		unit = "minute"
	}

	title := widget.NewLabelWithStyle("Well done", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	summary := widget.NewLabelWithStyle(
		fmt.Sprintf("%d mindful %s", minutes, unit),
		fyne.TextAlignCenter, fyne.TextStyle{},
	)
	done := widget.NewButton("Done", func() {
		if onDone != nil {
			onDone()
		}
	})

	return container.NewVBox(
		layout.NewSpacer(),
		title,
		summary,
		container.NewCenter(done),
		layout.NewSpacer(),
	)
}
