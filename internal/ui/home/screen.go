package home

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"stillpoint/internal/core/model"
)

// Callbacks defines home screen actions.
type Callbacks struct {
	OnStart    func(model.SessionConfig)
	OnSettings func()
	OnStats    func()
}

var presetMinutes = []int{5, 10, 15, 20}

// Screen is the duration picker. It is the input boundary: only validated
// configs ever reach the session timer.
type Screen struct {
	content   fyne.CanvasObject
	custom    *widget.Entry
	rangeHint *widget.Label
	callbacks Callbacks
}

// New creates the home screen.
func New(callbacks Callbacks) *Screen {
	screen := &Screen{callbacks: callbacks}

	title := widget.NewLabelWithStyle("Stillpoint", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	subtitle := widget.NewLabelWithStyle("How long would you like to sit?", fyne.TextAlignCenter, fyne.TextStyle{})

	presets := make([]fyne.CanvasObject, 0, len(presetMinutes))
	for _, minutes := range presetMinutes {
		minutes := minutes
		presets = append(presets, widget.NewButton(fmt.Sprintf("%d min", minutes), func() {
			screen.start(minutes)
		}))
	}

	screen.custom = widget.NewEntry()
	screen.custom.SetPlaceHolder(fmt.Sprintf("%d-%d minutes", model.MinDurationMinutes, model.MaxDurationMinutes))

	screen.rangeHint = widget.NewLabel("")
	screen.rangeHint.Hide()

	startButton := widget.NewButton("Begin", func() {
		minutes, err := strconv.Atoi(screen.custom.Text)
		if err != nil {
			screen.showHint()
			return
		}
		screen.start(minutes)
	})

	settingsButton := widget.NewButton("Settings", func() {
		if screen.callbacks.OnSettings != nil {
			screen.callbacks.OnSettings()
		}
	})
	statsButton := widget.NewButton("History", func() {
		if screen.callbacks.OnStats != nil {
			screen.callbacks.OnStats()
		}
	})

	screen.content = container.NewVBox(
		layout.NewSpacer(),
		title,
		subtitle,
		container.NewGridWithColumns(2, presets...),
		container.NewBorder(nil, nil, nil, startButton, screen.custom),
		screen.rangeHint,
		layout.NewSpacer(),
		container.NewGridWithColumns(2, settingsButton, statsButton),
	)
	return screen
}

// Content returns the screen's root object.
func (screen *Screen) Content() fyne.CanvasObject {
	return screen.content
}

func (screen *Screen) start(minutes int) {
	config := model.SessionConfig{DurationMinutes: minutes}
	if !config.Valid() {
		screen.showHint()
		return
	}
	screen.rangeHint.Hide()
	if screen.callbacks.OnStart != nil {
		screen.callbacks.OnStart(config)
	}
}

func (screen *Screen) showHint() {
	screen.rangeHint.SetText(fmt.Sprintf("Pick between %d and %d minutes.",
		model.MinDurationMinutes, model.MaxDurationMinutes))
	screen.rangeHint.Show()
}
