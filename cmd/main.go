package main

import (
	"context"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"stillpoint/internal/app"
	"stillpoint/internal/audio"
	"stillpoint/internal/audio/beepengine"
	"stillpoint/internal/core/cadence"
	"stillpoint/internal/core/model"
	"stillpoint/internal/platform"
	"stillpoint/internal/storage"
	"stillpoint/internal/ui/history"
	"stillpoint/internal/ui/home"
	"stillpoint/internal/ui/session"
	"stillpoint/internal/ui/settings"
	"stillpoint/internal/ui/theme"
	"stillpoint/internal/ui/tray"
)

const appName = "Stillpoint"

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	store, err := storage.NewStore(appName)
	if err != nil {
		log.Printf("storage: %v", err)
		store = storage.NewStoreAt(".")
	}

	state := app.NewState(store)
	state.Init()

	var engine audio.Engine
	beepEngine, err := beepengine.New()
	if err != nil {
		// The app stays usable without sound; tracks just never load.
		log.Printf("audio: %v", err)
	} else {
		engine = beepEngine
		defer beepEngine.Close()
	}
	mixer := audio.NewMixer(engine)

	fyneApp := fyneapp.NewWithID("com.stillpoint.app")
	window := fyneApp.NewWindow(appName)
	window.Resize(fyne.NewSize(420, 640))

	ui := &shell{
		window: window,
		state:  state,
		mixer:  mixer,
	}

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		ui.trayManager = tray.New(desktopApp, tray.Callbacks{
			OnOpen: func() {
				window.Show()
				window.RequestFocus()
			},
			OnTogglePause: ui.togglePause,
			OnEndSession:  ui.endSession,
			OnQuit: func() {
				ui.teardownSession()
				fyneApp.Quit()
			},
		})
	}

	window.SetCloseIntercept(func() {
		ui.teardownSession()
		fyneApp.Quit()
	})

	ui.showHome()
	window.Show()
	fyneApp.Run()

	mixer.UnloadAll(context.Background())
}

// shell owns navigation between screens and keeps the one active session.
type shell struct {
	window      fyne.Window
	state       *app.State
	mixer       *audio.Mixer
	trayManager *tray.Manager
	active      *session.Screen
	current     fyne.CanvasObject
}

// setContent wraps a screen in the current theme's background gradient.
func (ui *shell) setContent(content fyne.CanvasObject) {
	selected := theme.ByID(ui.state.ThemeID())
	background := canvas.NewLinearGradient(selected.Background[0], selected.Background[1], 0)
	ui.current = content
	ui.window.SetContent(container.NewStack(background, content))
}

func (ui *shell) showHome() {
	screen := home.New(home.Callbacks{
		OnStart:    ui.startSession,
		OnSettings: ui.showSettings,
		OnStats:    ui.showHistory,
	})
	ui.setContent(screen.Content())
}

func (ui *shell) showSettings() {
	screen := settings.New(ui.state, settings.Callbacks{
		OnSpeedChanged: func(speed cadence.Speed) {
			if ui.active != nil {
				ui.active.Engine().SetProfile(cadence.ProfileFor(speed))
			}
		},
		OnThemeChanged: func(string) {
			ui.setContent(ui.current)
		},
		OnTrackChanged: ui.applyTrackChange,
		OnBack:         ui.showHome,
	})
	ui.setContent(screen.Content())
}

func (ui *shell) showHistory() {
	screen := history.New(ui.state.Stats(), theme.ByID(ui.state.ThemeID()), ui.showHome)
	ui.setContent(screen.Content())
}

func (ui *shell) startSession(config model.SessionConfig) {
	screen := session.New(ui.state, ui.mixer, session.Callbacks{
		OnCompleted: func(minutes int) {
			ui.finishSession()
			ui.setContent(session.CompletionContent(minutes, ui.showHome))
		},
		OnStopped: func(int) {
			ui.finishSession()
			ui.showHome()
		},
	})
	ui.active = screen
	ui.setContent(screen.Content())
	screen.Start(config)

	if ui.trayManager != nil {
		ui.trayManager.SetInSession(true)
		ui.trayManager.SetStatus(fmt.Sprintf("%d minute session", config.DurationMinutes))
	}
}

func (ui *shell) togglePause() {
	if ui.active == nil {
		return
	}
	ui.active.TogglePause()
	if ui.trayManager != nil {
		ui.trayManager.SetPaused(ui.active.State().Paused)
	}
}

// applyTrackChange retargets a single track while a session is running.
// Enabling loads and starts the loop off the UI thread; disabling stops it.
func (ui *shell) applyTrackChange(track model.SoundTrack) {
	if ui.active == nil {
		return
	}
	ctx := context.Background()
	if !track.Enabled {
		ui.mixer.Stop(ctx, track.ID)
		return
	}
	go func() {
		ui.mixer.Load(ctx, track)
		ui.mixer.Play(ctx, track.ID, track.Volume)
	}()
}

func (ui *shell) endSession() {
	if ui.active != nil {
		ui.active.Stop()
	}
}

// finishSession tears the active session down after its terminal event.
func (ui *shell) finishSession() {
	screen := ui.active
	ui.active = nil
	if screen != nil {
		screen.Teardown()
	}
	if ui.trayManager != nil {
		ui.trayManager.SetInSession(false)
	}
}

// teardownSession handles quitting mid-session: an early exit commits the
// elapsed minutes like any user stop.
func (ui *shell) teardownSession() {
	if ui.active == nil {
		return
	}
	ui.active.Stop()
	ui.finishSession()
}
