package session

import (
	"context"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"stillpoint/internal/app"
	"stillpoint/internal/audio"
	"stillpoint/internal/core/cadence"
	"stillpoint/internal/core/model"
	"stillpoint/internal/core/timer"
	"stillpoint/internal/ui/breathing"
	"stillpoint/internal/ui/theme"
)

// Callbacks signal the session's outward transitions. The shell decides
// what to show next; the screen itself knows nothing about navigation.
type Callbacks struct {
	OnCompleted func(minutes int)
	OnStopped   func(minutes int)
}

// Screen is the active session view: countdown text, breathing circle and
// tap-to-reveal controls. One Screen drives exactly one session.
type Screen struct {
	state     *app.State
	mixer     *audio.Mixer
	callbacks Callbacks

	timer  *timer.Timer
	engine *cadence.Engine
	circle *breathing.Circle

	timerText   *canvas.Text
	pauseButton *widget.Button
	controls    fyne.CanvasObject
	content     fyne.CanvasObject
	cancel      context.CancelFunc
}

// New builds a session screen for the current theme and breathing speed.
func New(state *app.State, mixer *audio.Mixer, callbacks Callbacks) *Screen {
	screen := &Screen{
		state:     state,
		mixer:     mixer,
		callbacks: callbacks,
	}

	selected := theme.ByID(state.ThemeID())
	screen.circle = breathing.New(selected.Circle)

	screen.engine = cadence.New(cadence.ProfileFor(state.Speed()), func(frame cadence.Frame) {
		fyne.Do(func() {
			screen.circle.SetFrame(frame)
		})
	})
	screen.timer = timer.New(screen.engine, mixer, state.Ledger(), timer.Config{})

	screen.timerText = canvas.NewText("--:--", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	screen.timerText.Alignment = fyne.TextAlignCenter
	screen.timerText.TextSize = 44
	screen.timerText.Hide()

	screen.pauseButton = widget.NewButton("Pause", func() {
		screen.TogglePause()
	})
	stopButton := widget.NewButton("End", func() {
		screen.timer.Stop()
	})
	screen.controls = container.NewHBox(layout.NewSpacer(), screen.pauseButton, stopButton, layout.NewSpacer())
	screen.controls.Hide()

	body := container.NewBorder(
		container.NewPadded(screen.timerText),
		container.NewPadded(screen.controls),
		nil, nil,
		container.NewCenter(screen.circle.CanvasObject()),
	)
	screen.content = newTapArea(body, screen.toggleControls)
	return screen
}

// Content returns the screen's root object.
func (screen *Screen) Content() fyne.CanvasObject {
	return screen.content
}

// Engine exposes the cadence engine so a speed change in settings can
// retime an active session.
func (screen *Screen) Engine() *cadence.Engine {
	return screen.engine
}

// Start loads the catalog into the mixer and launches the countdown.
// Loading runs off the UI thread; enabled tracks begin once loaded.
func (screen *Screen) Start(config model.SessionConfig) {
	ctx, cancel := context.WithCancel(context.Background())
	screen.cancel = cancel

	screen.timerText.Text = formatRemaining(config.TotalSeconds())

	events := screen.timer.Subscribe(8)
	go screen.consume(events)

	tracks := screen.state.Tracks()
	go func() {
		for _, track := range tracks {
			screen.mixer.Load(ctx, track)
		}
		screen.timer.Start(ctx, config, tracks)
	}()
}

// TogglePause flips between Running and Paused.
func (screen *Screen) TogglePause() {
	if screen.timer.State().Paused {
		screen.timer.Resume()
	} else {
		screen.timer.Pause()
	}
}

// Stop ends the session early.
func (screen *Screen) Stop() {
	screen.timer.Stop()
}

// State returns the countdown snapshot for the shell and tray.
func (screen *Screen) State() timer.State {
	return screen.timer.State()
}

// Teardown silences everything the session started. Safe to call after a
// terminal event; it must run before the screen is discarded so no loop
// outlives the UI.
func (screen *Screen) Teardown() {
	screen.timer.Stop()
	screen.engine.Stop()
	screen.mixer.StopAll(context.Background())
	if screen.cancel != nil {
		screen.cancel()
	}
}

// consume relays timer events onto the UI thread. Emits are non-blocking
// on the timer side, so after the channel closes the final state is checked
// in case the terminal event was dropped behind unread ticks.
func (screen *Screen) consume(events <-chan timer.Event) {
	terminalSeen := false
	for event := range events {
		event := event
		switch event.Type {
		case timer.EventTick:
			fyne.Do(func() {
				screen.timerText.Text = formatRemaining(event.Remaining)
				canvas.Refresh(screen.timerText)
			})
		case timer.EventPhaseChange:
			fyne.Do(func() {
				if event.Phase == timer.PhasePaused {
					screen.pauseButton.SetText("Resume")
				} else {
					screen.pauseButton.SetText("Pause")
				}
			})
		case timer.EventCompleted:
			terminalSeen = true
			fyne.Do(func() {
				if screen.callbacks.OnCompleted != nil {
					screen.callbacks.OnCompleted(event.Minutes)
				}
			})
		case timer.EventStopped:
			terminalSeen = true
			fyne.Do(func() {
				if screen.callbacks.OnStopped != nil {
					screen.callbacks.OnStopped(event.Minutes)
				}
			})
		}
	}

	if terminalSeen {
		return
	}
	state := screen.timer.State()
	minutes := (state.TotalSeconds - state.RemainingSeconds) / 60
	switch state.Phase {
	case timer.PhaseCompleted:
		fyne.Do(func() {
			if screen.callbacks.OnCompleted != nil {
				screen.callbacks.OnCompleted(minutes)
			}
		})
	case timer.PhaseStopped:
		fyne.Do(func() {
			if screen.callbacks.OnStopped != nil {
				screen.callbacks.OnStopped(minutes)
			}
		})
	}
}

func (screen *Screen) toggleControls() {
	if screen.controls.Visible() {
		screen.controls.Hide()
		screen.timerText.Hide()
	} else {
		screen.controls.Show()
		screen.timerText.Show()
	}
}

func formatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
