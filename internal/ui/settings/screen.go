package settings

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"stillpoint/internal/app"
	"stillpoint/internal/core/cadence"
	"stillpoint/internal/core/model"
	"stillpoint/internal/ui/theme"
)

// Callbacks fire after a change has been written through to the app state,
// so the shell can retarget an active session (audio, cadence, colors).
type Callbacks struct {
	OnSpeedChanged func(speed cadence.Speed)
	OnThemeChanged func(themeID string)
	OnTrackChanged func(track model.SoundTrack)
	OnBack         func()
}

var speedLabels = map[string]cadence.Speed{
	"Normal (12s cycle)": cadence.SpeedNormal,
	"Slow (15s cycle)":   cadence.SpeedSlow,
}

// Screen is the settings view: breathing speed, theme and ambient tracks.
type Screen struct {
	state     *app.State
	callbacks Callbacks
	content   fyne.CanvasObject
}

// New builds the settings screen from the current app state.
func New(state *app.State, callbacks Callbacks) *Screen {
	screen := &Screen{state: state, callbacks: callbacks}

	speedGroup := widget.NewRadioGroup(speedOptions(), func(selected string) {
		speed, ok := speedLabels[selected]
		if !ok {
			return
		}
		state.SetSpeed(speed)
		if screen.callbacks.OnSpeedChanged != nil {
			screen.callbacks.OnSpeedChanged(speed)
		}
	})
	speedGroup.SetSelected(labelForSpeed(state.Speed()))

	themeNames := make([]string, 0, len(theme.Catalog()))
	themesByName := map[string]string{}
	for _, entry := range theme.Catalog() {
		themeNames = append(themeNames, entry.Name)
		themesByName[entry.Name] = entry.ID
	}
	themeGroup := widget.NewRadioGroup(themeNames, func(selected string) {
		themeID, ok := themesByName[selected]
		if !ok {
			return
		}
		state.SetTheme(themeID)
		if screen.callbacks.OnThemeChanged != nil {
			screen.callbacks.OnThemeChanged(themeID)
		}
	})
	themeGroup.SetSelected(theme.ByID(state.ThemeID()).Name)

	trackRows := make([]fyne.CanvasObject, 0, len(state.Tracks()))
	for _, track := range state.Tracks() {
		trackRows = append(trackRows, screen.trackRow(track))
	}

	backButton := widget.NewButton("Back", func() {
		if screen.callbacks.OnBack != nil {
			screen.callbacks.OnBack()
		}
	})

	form := container.NewVBox(
		widget.NewLabelWithStyle("Breathing", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		speedGroup,
		widget.NewLabelWithStyle("Theme", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		themeGroup,
		widget.NewLabelWithStyle("Ambient sounds", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	form.Objects = append(form.Objects, trackRows...)

	screen.content = container.NewBorder(nil, backButton, nil, nil, container.NewVScroll(form))
	return screen
}

// Content returns the screen's root object.
func (screen *Screen) Content() fyne.CanvasObject {
	return screen.content
}

// trackRow builds one enable-checkbox + volume-slider row. Both write
// through immediately and notify the shell with the updated track.
func (screen *Screen) trackRow(track model.SoundTrack) fyne.CanvasObject {
	current := track

	volume := widget.NewSlider(0, 100)
	volume.Step = 1
	volume.Value = float64(current.Volume)

	enabled := widget.NewCheck(current.Name, nil)
	enabled.SetChecked(current.Enabled)

	notify := func() {
		screen.state.UpdateTrack(current.ID, current.Enabled, current.Volume)
		if screen.callbacks.OnTrackChanged != nil {
			screen.callbacks.OnTrackChanged(current)
		}
	}
	enabled.OnChanged = func(checked bool) {
		current.Enabled = checked
		notify()
	}
	volume.OnChangeEnded = func(value float64) {
		current.Volume = int(value)
		notify()
	}

	return container.NewBorder(nil, nil, enabled, nil, volume)
}

func speedOptions() []string {
	return []string{labelForSpeed(cadence.SpeedNormal), labelForSpeed(cadence.SpeedSlow)}
}

func labelForSpeed(speed cadence.Speed) string {
	for label, value := range speedLabels {
		if value == speed {
			return label
		}
	}
	return string(speed)
}
